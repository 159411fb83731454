package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

const collectionEvents = "storage_events"

// EventRepository appends transition audit records. The collection is
// write-mostly; nothing in the request path reads it.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.StorageEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert storage event: %w", err)
	}
	return nil
}
