package identity

import (
	"context"

	"github.com/erp/requisition/internal/domain/shared"
)

// ErrInvalidCredentials is returned when the upstream rejects a login
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Credentials are what a user signs in with
type Credentials struct {
	Email    string
	Password string
	ClientID string
}

// Account is the signed-in user as reported by the upstream
type Account struct {
	UserName   string
	UserType   string
	ClientID   string
	ClientName string
}

// Authenticator verifies credentials against the upstream
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (*Account, error)
}
