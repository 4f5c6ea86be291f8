package service

import (
	"strings"
	"testing"
	"time"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

const testSecret = "unit-test-secret-key"

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens, err := NewTokens(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokens returned error: %v", err)
	}

	signed, err := tokens.Issue("user_1", domain.RoleTeacher)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected a token, got empty string")
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Fatalf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != domain.RoleTeacher {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestTokens_ShortSecretRejected(t *testing.T) {
	if _, err := NewTokens("tiny", time.Hour); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestTokens_ExpiredToken(t *testing.T) {
	// Construct directly so the TTL default does not kick in.
	expired := &Tokens{secret: []byte(testSecret), ttl: -time.Hour}

	signed, err := expired.Issue("user_1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := expired.Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokens_TamperedToken(t *testing.T) {
	tokens, _ := NewTokens(testSecret, time.Hour)
	signed, err := tokens.Issue("user_1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Flip one character of the payload segment.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", signed)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tokens.Verify(tampered); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	issuer, _ := NewTokens(testSecret, time.Hour)
	verifier, _ := NewTokens("a-completely-different-secret", time.Hour)

	signed, err := issuer.Issue("user_1", domain.RoleStudent)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken across diverged secrets, got %v", err)
	}
}
