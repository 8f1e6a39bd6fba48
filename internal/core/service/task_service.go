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

type TaskService struct {
	repo     ports.TaskRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTaskService(repo ports.TaskRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, activity: activity, logger: logger, now: time.Now}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask stores a new task, defaulting to medium priority and pending.
func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (domain.Task, error) {
	priority := domain.TaskPriority(in.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	status := domain.TaskStatus(in.Status)
	if status == "" {
		status = domain.TaskPending
	}

	var problems []string
	if in.Title == "" {
		problems = append(problems, "title is required")
	}
	if in.DueDate.IsZero() {
		problems = append(problems, "dueDate is required")
	}
	if !priority.Valid() {
		problems = append(problems, "priority must be one of: low medium high")
	}
	if !status.Valid() {
		problems = append(problems, "status must be one of: pending in-progress completed")
	}
	if len(problems) > 0 {
		return domain.Task{}, domain.NewValidationError(problems...)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Task{
		Title:       in.Title,
		Description: in.Description,
		CustomerID:  in.CustomerID,
		DealID:      in.DealID,
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      status,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	metrics.RecordsCreatedTotal.WithLabelValues("task").Inc()
	s.logger.Info().Str("task_id", created.ID).Msg("task created")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityTaskCreated,
		EntityID: created.ID,
		ActorID:  actorID(ctx),
		Summary:  created.Title,
		At:       now,
	})
	return created, nil
}
