package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// RequestRepository defines persistence operations for storage requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) (*domain.Request, error)
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	// List returns requests, filtered to a single owner when userID is
	// non-empty (RBAC is enforced at query level, never post-hoc).
	List(ctx context.Context, userID string) ([]*domain.Request, error)
	// SetStorageID links a storage record onto a request.
	SetStorageID(ctx context.Context, requestID, storageID string) error
}

// ProductRepository provides read-only access to the product catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}
