package service

import (
	"context"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

// UserService implements profile use-cases.
type UserService struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
}

func NewUserService(users ports.UserRepository, projects ports.ProjectRepository) *UserService {
	return &UserService{users: users, projects: projects}
}

func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	return s.users.UpdateProfile(ctx, userID, update)
}

// StudentProfile returns a student's public profile together with their
// projects. The role gate (teacher-only) sits at the route; ownership of the
// data is public within the platform.
func (s *UserService) StudentProfile(ctx context.Context, studentID string) (*ports.StudentProfile, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.FindByOwner(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &ports.StudentProfile{
		Profile:  user.Public(),
		Projects: projects,
	}, nil
}
