package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionStore keeps server-side login sessions. Deleting a session revokes
// the token bound to it.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Find(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}
