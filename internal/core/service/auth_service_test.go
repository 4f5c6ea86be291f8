package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
		if user.Username != "" && u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.SocialLinks != nil {
		u.SocialLinks = *update.SocialLinks
	}
	if update.ProfilePictureURL != nil {
		u.ProfilePictureURL = *update.ProfilePictureURL
	}
	if update.ProfileImage != nil {
		u.ProfileImage = *update.ProfileImage
	}
	if update.ResumeURL != nil {
		u.ResumeURL = *update.ResumeURL
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) EnsureIndexes(_ context.Context) error { return nil }

func newAuthService(repo ports.UserRepository) *AuthService {
	tokens, _ := NewTokens(testSecret, time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "alice@example.com",
		Password: "pass123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected default role student, got %s", user.Role)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	first := ports.RegisterInput{Email: "bob@example.com", Password: "pass"}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), first); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate registration created a second user")
	}
}

func TestAuthService_Register_BadRole(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "eve@example.com",
		Password: "pass",
		Role:     "admin",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "carol@example.com", Password: "s3cret", Role: domain.RoleTeacher,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@example.com", "s3cret", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.Role != domain.RoleTeacher {
		t.Fatalf("unexpected role: %s", result.Role)
	}
	if result.RedirectTo != "/teacher-profile.html" {
		t.Fatalf("unexpected redirect: %s", result.RedirectTo)
	}

	tokens, _ := NewTokens(testSecret, time.Hour)
	claims, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Role != domain.RoleTeacher {
		t.Fatalf("token role claim mismatch: %s", claims.Role)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailReadsLikeBadPassword(t *testing.T) {
	svc := newAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_RoleHintNeverRewritesRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Email: "frank@example.com", Password: "pass", Role: domain.RoleStudent,
	})

	// Claiming teacher at login fails and leaves the account untouched.
	if _, err := svc.Login(context.Background(), "frank@example.com", "pass", domain.RoleTeacher); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for role mismatch, got %v", err)
	}

	stored, _ := repo.FindByEmail(context.Background(), "frank@example.com")
	if stored.Role != domain.RoleStudent {
		t.Fatalf("stored role was rewritten to %s", stored.Role)
	}

	// A matching hint still works.
	if _, err := svc.Login(context.Background(), "frank@example.com", "pass", domain.RoleStudent); err != nil {
		t.Fatalf("matching role hint failed: %v", err)
	}
}

func TestAuthService_LoginWithGoogle_NewUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	result, err := svc.LoginWithGoogle(context.Background(), ports.GoogleProfile{
		Email:      "grace@example.com",
		Name:       "Grace",
		PictureURL: "https://example.com/grace.png",
	})
	if err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}

	user, err := repo.FindByEmail(context.Background(), "grace@example.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("expected student role, got %s", user.Role)
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected a generated password hash")
	}
}

func TestAuthService_LoginWithGoogle_ExistingUserRefreshed(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{
		Email: "heidi@example.com", Password: "pass", Name: "H.", Role: domain.RoleTeacher,
	})

	result, err := svc.LoginWithGoogle(context.Background(), ports.GoogleProfile{
		Email: "heidi@example.com", Name: "Heidi", PictureURL: "https://example.com/heidi.png",
	})
	if err != nil {
		t.Fatalf("google login failed: %v", err)
	}
	if result.Role != domain.RoleTeacher {
		t.Fatalf("stored role lost on google login: %s", result.Role)
	}

	user, _ := repo.FindByEmail(context.Background(), "heidi@example.com")
	if user.Name != "Heidi" || user.ProfilePictureURL != "https://example.com/heidi.png" {
		t.Fatalf("profile not refreshed: %+v", user)
	}
	if len(repo.users) != 1 {
		t.Fatalf("google login duplicated the account")
	}
}
