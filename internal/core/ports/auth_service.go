package ports

import (
	"context"

	"github.com/skladhub/warehousing-system/internal/core/domain"
)

// RegisterInput carries the full registration payload. Public registration
// always creates client accounts; managers are provisioned out of band.
type RegisterInput struct {
	Username    string
	Password    string
	FirstName   string
	LastName    string
	Patronymic  string
	CompanyName string
	PhoneNumber string
	Address     string
}

// AuthService implements registration, login, token resolution and logout.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and returns an opaque token plus the user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Authenticate resolves a token to its user, requiring a live session.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// Logout revokes the session bound to the token. Revoking an already
	// dead session is not an error.
	Logout(ctx context.Context, token string) error
}
