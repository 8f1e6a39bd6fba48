package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

const activityCollection = "activity_events"

// ActivityRepository persists audit events to the activity_events collection.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// EnsureIndexes creates the lookup indexes used by audit queries.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(activityCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("activity indexes: %w", err)
	}
	return nil
}

// Write inserts one event.
func (r *ActivityRepository) Write(ctx context.Context, event domain.ActivityEvent) error {
	doc := bson.M{
		"kind":        string(event.Kind),
		"entity_id":   event.EntityID,
		"actor_id":    event.ActorID,
		"summary":     event.Summary,
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if _, err := r.db.Collection(activityCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns up to limit events for an entity, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, entityID string, limit int64) ([]domain.ActivityEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cur, err := r.db.Collection(activityCollection).Find(ctx, bson.M{"entity_id": entityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		Kind     string    `bson:"kind"`
		EntityID string    `bson:"entity_id"`
		ActorID  string    `bson:"actor_id"`
		Summary  string    `bson:"summary"`
		At       time.Time `bson:"at"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	events := make([]domain.ActivityEvent, len(docs))
	for i, d := range docs {
		events[i] = domain.ActivityEvent{
			Kind:     domain.ActivityKind(d.Kind),
			EntityID: d.EntityID,
			ActorID:  d.ActorID,
			Summary:  d.Summary,
			At:       d.At,
		}
	}
	return events, nil
}
