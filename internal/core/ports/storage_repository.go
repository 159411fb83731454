package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// StorageRepository defines persistence operations for storage records.
type StorageRepository interface {
	Create(ctx context.Context, s *domain.Storage) (*domain.Storage, error)
	FindByID(ctx context.Context, id string) (*domain.Storage, error)
	// List returns storage records, filtered to a single owner when userID
	// is non-empty.
	List(ctx context.Context, userID string) ([]*domain.Storage, error)
	// UpdateStatus persists a status change.
	UpdateStatus(ctx context.Context, id string, status domain.StorageStatus) error
	// Close persists the terminal closure: end date plus closed status.
	Close(ctx context.Context, id string, endDate string) error
}

// EventRepository persists transition audit records.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.StorageEvent) error
}
