package ports

// Claims is the decoded identity carried by a session token.
type Claims struct {
	UserID string
	Role   string
}

// TokenService issues and verifies signed session tokens. One implementation
// holds the single process-wide secret used for both directions.
type TokenService interface {
	Issue(userID, role string) (string, error)
	// Verify returns the claims of a valid token. All structural, signature
	// and expiry failures collapse into a single invalid-token error; callers
	// never learn which check failed.
	Verify(token string) (*Claims, error)
}
