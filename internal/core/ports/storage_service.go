package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// CreateStorageInput carries the fields a manager copies from a request when
// creating a storage record. Amount is derived from the product price and is
// not part of the input.
type CreateStorageInput struct {
	UserID    string
	ProductID string
	StartDate string
	Quantity  int
}

// StorageService defines the manager-side storage lifecycle plus role-scoped
// listing.
type StorageService interface {
	Create(ctx context.Context, input CreateStorageInput) (*domain.Storage, error)
	List(ctx context.Context, role domain.Role, userID string) ([]*domain.Storage, error)
	// UpdateStatus moves a pending record to approved or rejected. Any other
	// transition is refused with ErrInvalidTransition (ErrStorageClosed for
	// closed records).
	UpdateStatus(ctx context.Context, id string, next domain.StorageStatus, actor string) (*domain.Storage, error)
	// Close terminates an approved record: sets the end date and the closed
	// status. endDate must not precede the record's start date.
	Close(ctx context.Context, id string, endDate string, actor string) (*domain.Storage, error)
}

// EventSink receives transition audit events for asynchronous persistence.
type EventSink interface {
	Enqueue(event domain.StorageEvent)
}
