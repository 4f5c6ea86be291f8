package ports

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

// ProfileUpdate carries a partial profile edit. Nil pointers mean "leave the
// stored value untouched"; empty strings through a non-nil pointer clear it.
type ProfileUpdate struct {
	Name              *string
	Username          *string
	Bio               *string
	SocialLinks       *domain.SocialLinks
	ProfilePictureURL *string
	ProfileImage      *string
	ResumeURL         *string
}

// UserRepository defines persistence for user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	EnsureIndexes(ctx context.Context) error
}
