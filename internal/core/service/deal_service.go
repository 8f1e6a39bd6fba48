package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/pkg/metrics"
)

type DealService struct {
	repo     ports.DealRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewDealService(repo ports.DealRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *DealService {
	return &DealService{repo: repo, activity: activity, logger: logger, now: time.Now}
}

func (s *DealService) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	deals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

// CreateDeal stores a new deal. The customer reference is not checked.
func (s *DealService) CreateDeal(ctx context.Context, in ports.CreateDealInput) (domain.Deal, error) {
	stage := domain.DealStage(in.Stage)
	if stage == "" {
		stage = domain.StageProspecting
	}

	var problems []string
	if in.Title == "" {
		problems = append(problems, "title is required")
	}
	if in.Value < 0 {
		problems = append(problems, "value must not be negative")
	}
	if in.Probability < 0 || in.Probability > 100 {
		problems = append(problems, "probability must be between 0 and 100")
	}
	if !stage.Valid() {
		problems = append(problems, "stage must be one of: prospecting qualification proposal negotiation closed lost")
	}
	if len(problems) > 0 {
		return domain.Deal{}, domain.NewValidationError(problems...)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Deal{
		Title:             in.Title,
		Description:       in.Description,
		CustomerID:        in.CustomerID,
		CustomerName:      in.CustomerName,
		Value:             in.Value,
		Stage:             stage,
		Probability:       in.Probability,
		ExpectedCloseDate: in.ExpectedCloseDate,
		CloseDate:         in.CloseDate,
		Notes:             in.Notes,
		CreatedAt:         now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create deal")
		return domain.Deal{}, fmt.Errorf("create deal: %w", err)
	}

	metrics.RecordsCreatedTotal.WithLabelValues("deal").Inc()
	s.logger.Info().Str("deal_id", created.ID).Str("stage", string(created.Stage)).Msg("deal created")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityDealCreated,
		EntityID: created.ID,
		ActorID:  actorID(ctx),
		Summary:  created.Title,
		At:       now,
	})
	return created, nil
}
