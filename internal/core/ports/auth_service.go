package ports

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

// RegisterInput carries a local registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	// Role defaults to student when empty.
	Role string
}

// LoginResult is returned on a successful credential check.
type LoginResult struct {
	Token      string
	Role       string
	RedirectTo string
}

// GoogleProfile is the subset of the Google userinfo response the system
// consumes.
type GoogleProfile struct {
	Email      string
	Name       string
	PictureURL string
}

// AuthService implements registration and both login flows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies email/password. A non-empty roleHint that does not match
	// the stored role fails with invalid credentials; login never rewrites
	// the stored role.
	Login(ctx context.Context, email, password, roleHint string) (*LoginResult, error)
	// LoginWithGoogle upserts the user for a completed OAuth exchange and
	// returns a session token.
	LoginWithGoogle(ctx context.Context, profile GoogleProfile) (*LoginResult, error)
}
