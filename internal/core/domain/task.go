package domain

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a follow-up item, optionally tied to a customer and/or deal
// (soft references, not checked).
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CustomerID  string       `json:"customerId,omitempty"`
	DealID      string       `json:"dealId,omitempty"`
	DueDate     time.Time    `json:"dueDate"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	AssignedTo  string       `json:"assignedTo"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (t Task) GetID() string { return t.ID }

// Overdue reports whether the task is past due at now and still open.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != TaskCompleted
}
