package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestTokenExpiredMatchesInvalidToken(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", ErrTokenExpired)
	if !errors.Is(wrapped, ErrTokenExpired) {
		t.Fatal("expected ErrTokenExpired")
	}
	if !errors.Is(wrapped, ErrInvalidToken) {
		t.Fatal("expired token should also be an invalid token")
	}
	if errors.Is(ErrInvalidToken, ErrTokenExpired) {
		t.Fatal("a plain invalid token is not expired")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email is required", "password is required")
	if got := err.Error(); got != "email is required; password is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(fmt.Errorf("create: %w", err), ErrValidation) {
		t.Fatal("expected ErrValidation match")
	}
	if got := NewValidationError().Error(); got != ErrValidation.Error() {
		t.Fatalf("empty validation error should fall back, got %q", got)
	}
}

func TestAvatarFor(t *testing.T) {
	cases := map[string]string{
		"demo user": "D",
		"  ada":     "A",
		"émile":     "É",
		"":          "",
	}
	for name, want := range cases {
		if got := AvatarFor(name); got != want {
			t.Errorf("AvatarFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEnumsValid(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"active", CustomerStatus("active").Valid()},
		{"lost", DealStage("lost").Valid()},
		{"closed", StageClosed.Valid()},
		{"high", PriorityHigh.Valid()},
		{"in-progress", TaskStatus("in-progress").Valid()},
	}
	for _, tt := range tests {
		if !tt.ok {
			t.Errorf("%s should be valid", tt.name)
		}
	}

	if CustomerStatus("Active").Valid() || DealStage("won").Valid() ||
		TaskPriority("urgent").Valid() || TaskStatus("done").Valid() {
		t.Fatal("unknown values must be rejected")
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past pending", Task{DueDate: now.Add(-time.Hour), Status: TaskPending}, true},
		{"past in progress", Task{DueDate: now.AddDate(0, 0, -3), Status: TaskInProgress}, true},
		{"past completed", Task{DueDate: now.AddDate(0, 0, -3), Status: TaskCompleted}, false},
		{"due now", Task{DueDate: now, Status: TaskPending}, false},
		{"future", Task{DueDate: now.AddDate(0, 0, 1), Status: TaskPending}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Overdue(now); got != tt.want {
				t.Fatalf("Overdue = %v, want %v", got, tt.want)
			}
		})
	}
}
