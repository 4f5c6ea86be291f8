package domain

import "errors"

// ErrInvalidToken covers every verification failure: bad structure, wrong
// signature, or expiry. Callers are never told which.
var ErrInvalidToken = errors.New("token is not valid")
