package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// CreateRequestInput carries all data needed to create a storage request.
type CreateRequestInput struct {
	UserID    string
	ProductID string
	StartDate string
	Quantity  int
}

// RequestService defines the client-facing request use cases plus the
// manager-side link operation.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error)
	// List scopes results by role: managers see every request, clients only
	// their own.
	List(ctx context.Context, role domain.Role, userID string) ([]*domain.Request, error)
	// LinkStorage attaches a storage record to a request. Valid only while
	// the request has no linked storage.
	LinkStorage(ctx context.Context, requestID, storageID string) (*domain.Request, error)
}
