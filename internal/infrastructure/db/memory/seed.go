package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/pkg/security"
)

// DemoUser describes the identity seeded at startup.
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

// Store groups the in-memory collections so they can be seeded together.
type Store struct {
	Users     *AuthRepository
	Customers *CustomerRepository
	Deals     *DealRepository
	Tasks     *TaskRepository
}

// NewStore returns empty collections.
func NewStore() *Store {
	return &Store{
		Users:     NewAuthRepository(),
		Customers: NewCustomerRepository(),
		Deals:     NewDealRepository(),
		Tasks:     NewTaskRepository(),
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// SeedDemo loads the demo administrator and the sample CRM data set.
func (s *Store) SeedDemo(ctx context.Context, demo DemoUser) error {
	hash, err := security.HashPassword(demo.Password)
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	if _, err := s.Users.Create(ctx, &domain.User{
		ID:           "1",
		Name:         demo.Name,
		Email:        demo.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Avatar:       domain.AvatarFor(demo.Name),
		CreatedAt:    time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	if err := s.Customers.Seed(sampleCustomers...); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}
	if err := s.Deals.Seed(sampleDeals...); err != nil {
		return fmt.Errorf("seed deals: %w", err)
	}
	if err := s.Tasks.Seed(sampleTasks...); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	return nil
}

var sampleCustomers = []domain.Customer{
	{ID: "1", Name: "John Smith", Email: "john.smith@acme.com", Phone: "+1-555-0123", Company: "Acme Corp", Status: domain.CustomerActive, Source: "Website", CreatedAt: day("2024-01-15"), LastContact: day("2024-03-10"), Notes: "Interested in enterprise solution"},
	{ID: "2", Name: "Sarah Johnson", Email: "sarah.j@techstart.com", Phone: "+1-555-0456", Company: "TechStart Inc", Status: domain.CustomerProspect, Source: "LinkedIn", CreatedAt: day("2024-02-20"), LastContact: day("2024-03-08"), Notes: "Looking for CRM solution"},
	{ID: "3", Name: "Mike Wilson", Email: "mike.w@globaltech.com", Phone: "+1-555-0789", Company: "GlobalTech Solutions", Status: domain.CustomerActive, Source: "Referral", CreatedAt: day("2024-01-30"), LastContact: day("2024-03-12"), Notes: "Current customer, very satisfied"},
	{ID: "4", Name: "Emily Davis", Email: "emily.d@innovate.com", Phone: "+1-555-0321", Company: "Innovate Labs", Status: domain.CustomerInactive, Source: "Trade Show", CreatedAt: day("2024-02-10"), LastContact: day("2024-02-28"), Notes: "Budget constraints"},
	{ID: "5", Name: "David Brown", Email: "david.b@megacorp.com", Phone: "+1-555-0654", Company: "MegaCorp Industries", Status: domain.CustomerActive, Source: "Cold Call", CreatedAt: day("2024-03-01"), LastContact: day("2024-03-15"), Notes: "Enterprise deal in progress"},
}

var sampleDeals = []domain.Deal{
	{ID: "1", Title: "Acme Corp Enterprise License", Description: "Enterprise software license for 500 users", CustomerID: "1", CustomerName: "John Smith", Value: 50000, Stage: domain.StageNegotiation, Probability: 75, ExpectedCloseDate: dayPtr("2024-04-15"), CloseDate: dayPtr("2024-04-15"), CreatedAt: day("2024-02-01"), Notes: "Final contract review in progress"},
	{ID: "2", Title: "TechStart CRM Implementation", Description: "Complete CRM system implementation and training", CustomerID: "2", CustomerName: "Sarah Johnson", Value: 25000, Stage: domain.StageProposal, Probability: 60, ExpectedCloseDate: dayPtr("2024-04-30"), CloseDate: dayPtr("2024-04-30"), CreatedAt: day("2024-03-01"), Notes: "Proposal sent, waiting for feedback"},
	{ID: "3", Title: "GlobalTech Support Renewal", Description: "Annual support and maintenance renewal", CustomerID: "3", CustomerName: "Mike Wilson", Value: 15000, Stage: domain.StageClosed, Probability: 100, ExpectedCloseDate: dayPtr("2024-03-01"), CloseDate: dayPtr("2024-03-01"), CreatedAt: day("2024-02-15"), Notes: "Successfully closed"},
	{ID: "4", Title: "MegaCorp Multi-Year Contract", Description: "Multi-year enterprise contract with custom features", CustomerID: "5", CustomerName: "David Brown", Value: 100000, Stage: domain.StageQualification, Probability: 40, ExpectedCloseDate: dayPtr("2024-06-30"), CloseDate: dayPtr("2024-06-30"), CreatedAt: day("2024-03-05"), Notes: "Initial meeting completed"},
	{ID: "5", Title: "Innovate Labs Pilot Program", Description: "Pilot program for new product line", CustomerID: "4", CustomerName: "Emily Davis", Value: 5000, Stage: domain.StageProspecting, Probability: 20, ExpectedCloseDate: dayPtr("2024-05-15"), CloseDate: dayPtr("2024-05-15"), CreatedAt: day("2024-03-10"), Notes: "Initial contact made"},
}

var sampleTasks = []domain.Task{
	{ID: "1", Title: "Follow up with Acme Corp", Description: "Call John to discuss contract terms", CustomerID: "1", DealID: "1", DueDate: day("2024-03-20"), Priority: domain.PriorityHigh, Status: domain.TaskPending, AssignedTo: "Sales Team", CreatedAt: day("2024-03-15")},
	{ID: "2", Title: "Prepare TechStart proposal", Description: "Create detailed proposal for TechStart CRM implementation", CustomerID: "2", DealID: "2", DueDate: day("2024-03-18"), Priority: domain.PriorityMedium, Status: domain.TaskInProgress, AssignedTo: "Sales Team", CreatedAt: day("2024-03-10")},
	{ID: "3", Title: "Schedule MegaCorp demo", Description: "Arrange product demonstration for MegaCorp team", CustomerID: "5", DealID: "4", DueDate: day("2024-03-25"), Priority: domain.PriorityMedium, Status: domain.TaskPending, AssignedTo: "Sales Team", CreatedAt: day("2024-03-12")},
}
