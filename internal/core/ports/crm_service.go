package ports

import (
	"context"
	"time"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// CreateCustomerInput is the allowlisted set of client-supplied customer fields.
type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Status  string
	Source  string
	Notes   string
}

type CreateDealInput struct {
	Title             string
	Description       string
	CustomerID        string
	CustomerName      string
	Value             float64
	Stage             string
	Probability       int
	ExpectedCloseDate *time.Time
	CloseDate         *time.Time
	Notes             string
}

type CreateTaskInput struct {
	Title       string
	Description string
	CustomerID  string
	DealID      string
	DueDate     time.Time
	Priority    string
	Status      string
	AssignedTo  string
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, in CreateCustomerInput) (domain.Customer, error)
}

type DealService interface {
	ListDeals(ctx context.Context) ([]domain.Deal, error)
	CreateDeal(ctx context.Context, in CreateDealInput) (domain.Deal, error)
}

type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error)
}
