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

type CustomerService struct {
	repo     ports.CustomerRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCustomerService(repo ports.CustomerRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, activity: activity, logger: logger, now: time.Now}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// CreateCustomer stores a new customer. createdAt and lastContact are set
// server-side; status defaults to prospect.
func (s *CustomerService) CreateCustomer(ctx context.Context, in ports.CreateCustomerInput) (domain.Customer, error) {
	status := domain.CustomerStatus(in.Status)
	if status == "" {
		status = domain.CustomerProspect
	}

	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Email == "" {
		problems = append(problems, "email is required")
	}
	if !status.Valid() {
		problems = append(problems, "status must be one of: active inactive prospect")
	}
	if len(problems) > 0 {
		return domain.Customer{}, domain.NewValidationError(problems...)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Customer{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Company:     in.Company,
		Status:      status,
		Source:      in.Source,
		Notes:       in.Notes,
		CreatedAt:   now,
		LastContact: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create customer")
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	metrics.RecordsCreatedTotal.WithLabelValues("customer").Inc()
	s.logger.Info().Str("customer_id", created.ID).Msg("customer created")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityCustomerCreated,
		EntityID: created.ID,
		ActorID:  actorID(ctx),
		Summary:  created.Name,
		At:       now,
	})
	return created, nil
}

// actorID is the principal behind ctx, or empty for internal callers.
func actorID(ctx context.Context) string {
	p, _ := domain.PrincipalFrom(ctx)
	return p.ID
}
