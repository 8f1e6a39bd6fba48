package domain

import "time"

// ActivityKind names what happened in an ActivityEvent.
type ActivityKind string

const (
	ActivityUserRegistered  ActivityKind = "user_registered"
	ActivityUserLoggedIn    ActivityKind = "user_logged_in"
	ActivityCustomerCreated ActivityKind = "customer_created"
	ActivityDealCreated     ActivityKind = "deal_created"
	ActivityTaskCreated     ActivityKind = "task_created"
)

// ActivityEvent is an audit record of a successful mutation or sign-in.
type ActivityEvent struct {
	Kind     ActivityKind
	EntityID string
	ActorID  string
	Summary  string
	At       time.Time
}
