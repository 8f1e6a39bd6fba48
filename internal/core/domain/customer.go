package domain

import "time"

// CustomerStatus is the relationship state of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerProspect CustomerStatus = "prospect"
)

// Valid reports whether s is one of the known statuses.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerActive, CustomerInactive, CustomerProspect:
		return true
	}
	return false
}

// Customer is a contact tracked by the CRM.
type Customer struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Company     string         `json:"company"`
	Status      CustomerStatus `json:"status"`
	Source      string         `json:"source"`
	Notes       string         `json:"notes"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastContact time.Time      `json:"lastContact"`
}

// GetID implements the collection key contract.
func (c Customer) GetID() string { return c.ID }
