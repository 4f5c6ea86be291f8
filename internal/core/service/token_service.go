package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eduport/portfolio-api/internal/core/domain"
	"github.com/eduport/portfolio-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// Tokens issues and verifies HS256 session tokens. It is the only holder of
// the signing secret; issuance and verification can never diverge.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens builds a Tokens service. The secret must be at least 16 bytes.
// A non-positive ttl falls back to one hour.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 16 {
		return nil, errors.New("token: signing secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token carrying the user's identity and role.
func (t *Tokens) Issue(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"uid":  userID,
		"role": role,
		"exp":  time.Now().Add(t.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify parses and validates a token. Every failure mode surfaces as
// domain.ErrInvalidToken.
func (t *Tokens) Verify(token string) (*ports.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return nil, domain.ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return &ports.Claims{UserID: uid, Role: role}, nil
}
