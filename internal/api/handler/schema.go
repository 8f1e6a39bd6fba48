package handler

import "github.com/moderncrm/crm-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// --- CRM records ---
//
// Only the fields below are accepted from clients; ids and timestamps are
// always assigned by the server. Dates are RFC 3339 or YYYY-MM-DD.

type createCustomerRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Status  string `json:"status"  validate:"omitempty,oneof=active inactive prospect"`
	Source  string `json:"source"`
	Notes   string `json:"notes"`
}

type createDealRequest struct {
	Title             string  `json:"title"       validate:"required"`
	Description       string  `json:"description"`
	CustomerID        string  `json:"customerId"`
	CustomerName      string  `json:"customerName"`
	Value             float64 `json:"value"       validate:"gte=0"`
	Stage             string  `json:"stage"       validate:"omitempty,oneof=prospecting qualification proposal negotiation closed lost"`
	Probability       int     `json:"probability" validate:"gte=0,lte=100"`
	ExpectedCloseDate string  `json:"expectedCloseDate"`
	CloseDate         string  `json:"closeDate"`
	Notes             string  `json:"notes"`
}

type createTaskRequest struct {
	Title       string `json:"title"    validate:"required"`
	Description string `json:"description"`
	CustomerID  string `json:"customerId"`
	DealID      string `json:"dealId"`
	DueDate     string `json:"dueDate"  validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      string `json:"status"   validate:"omitempty,oneof=pending in-progress completed"`
	AssignedTo  string `json:"assignedTo"`
}
