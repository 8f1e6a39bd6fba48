package ports

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// CustomerRepository is the append-only customer collection.
// Create assigns the id and returns the stored record.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
}

type DealRepository interface {
	List(ctx context.Context) ([]domain.Deal, error)
	Create(ctx context.Context, d domain.Deal) (domain.Deal, error)
}

type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
}
