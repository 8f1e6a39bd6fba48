package memory

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// CustomerRepository implements ports.CustomerRepository in memory.
type CustomerRepository struct {
	col *Collection[domain.Customer]
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{col: NewCollection[domain.Customer]()}
}

func (r *CustomerRepository) List(_ context.Context) ([]domain.Customer, error) {
	return r.col.List(), nil
}

func (r *CustomerRepository) Create(_ context.Context, c domain.Customer) (domain.Customer, error) {
	return r.col.Insert(func(id string) domain.Customer {
		c.ID = id
		return c
	})
}

// Seed loads fixture customers that already carry ids.
func (r *CustomerRepository) Seed(customers ...domain.Customer) error {
	return r.col.Seed(customers...)
}

// DealRepository implements ports.DealRepository in memory.
type DealRepository struct {
	col *Collection[domain.Deal]
}

func NewDealRepository() *DealRepository {
	return &DealRepository{col: NewCollection[domain.Deal]()}
}

func (r *DealRepository) List(_ context.Context) ([]domain.Deal, error) {
	return r.col.List(), nil
}

func (r *DealRepository) Create(_ context.Context, d domain.Deal) (domain.Deal, error) {
	return r.col.Insert(func(id string) domain.Deal {
		d.ID = id
		return d
	})
}

func (r *DealRepository) Seed(deals ...domain.Deal) error {
	return r.col.Seed(deals...)
}

// TaskRepository implements ports.TaskRepository in memory.
type TaskRepository struct {
	col *Collection[domain.Task]
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{col: NewCollection[domain.Task]()}
}

func (r *TaskRepository) List(_ context.Context) ([]domain.Task, error) {
	return r.col.List(), nil
}

func (r *TaskRepository) Create(_ context.Context, t domain.Task) (domain.Task, error) {
	return r.col.Insert(func(id string) domain.Task {
		t.ID = id
		return t
	})
}

func (r *TaskRepository) Seed(tasks ...domain.Task) error {
	return r.col.Seed(tasks...)
}
