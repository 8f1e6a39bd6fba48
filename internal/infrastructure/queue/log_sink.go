package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// LogSink writes activity events to the application log. Used when no
// MongoDB is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Write(_ context.Context, event domain.ActivityEvent) error {
	s.log.Info().
		Str("kind", string(event.Kind)).
		Str("entity_id", event.EntityID).
		Str("actor_id", event.ActorID).
		Str("summary", event.Summary).
		Time("at", event.At).
		Msg("activity")
	return nil
}
