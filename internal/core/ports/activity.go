package ports

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// ActivityRecorder accepts audit events without blocking the caller.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// ActivitySink persists audit events.
type ActivitySink interface {
	Write(ctx context.Context, event domain.ActivityEvent) error
}
