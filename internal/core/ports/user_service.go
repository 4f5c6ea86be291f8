package ports

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

// StudentProfile is the teacher-facing view of a student: public profile
// fields plus the student's projects.
type StudentProfile struct {
	Profile  domain.PublicProfile
	Projects []*domain.Project
}

// UserService defines profile use-cases.
type UserService interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
	StudentProfile(ctx context.Context, studentID string) (*StudentProfile, error)
}
