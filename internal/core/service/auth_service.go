package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduport/portfolio-api/internal/api/metrics"
	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

// AuthService implements registration and both login flows.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := input.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(role).Inc()
	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies email/password and issues a session token. A non-empty
// roleHint must match the stored role; the stored role is never rewritten
// from login input.
func (s *AuthService) Login(ctx context.Context, email, password, roleHint string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email reads the same as a bad password.
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if roleHint != "" && roleHint != user.Role {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{
		Token:      token,
		Role:       user.Role,
		RedirectTo: redirectFor(user.Role),
	}, nil
}

// LoginWithGoogle upserts the account behind a completed OAuth exchange. An
// existing user is refreshed with the Google display name and picture; a new
// one is created as a student with an unguessable local password.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile ports.GoogleProfile) (*ports.LoginResult, error) {
	if profile.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch err {
	case nil:
		user, err = s.users.UpdateProfile(ctx, user.ID, ports.ProfileUpdate{
			Name:              &profile.Name,
			ProfilePictureURL: &profile.PictureURL,
		})
		if err != nil {
			return nil, err
		}
	case domain.ErrUserNotFound:
		password, randErr := randomPassword()
		if randErr != nil {
			return nil, randErr
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		now := time.Now().UTC()
		user, err = s.users.Create(ctx, &domain.User{
			Email:             profile.Email,
			PasswordHash:      string(hash),
			Name:              profile.Name,
			ProfilePictureURL: profile.PictureURL,
			Role:              domain.RoleStudent,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues(domain.RoleStudent).Inc()
	default:
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("google login")
	return &ports.LoginResult{
		Token:      token,
		Role:       user.Role,
		RedirectTo: redirectFor(user.Role),
	}, nil
}

func redirectFor(role string) string {
	if role == domain.RoleTeacher {
		return "/teacher-profile.html"
	}
	return "/dashboard.html"
}

func randomPassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
