package shortener

import "errors"

var (
	ErrInvalidURL    = errors.New("target url must start with http:// or https://")
	ErrInvalidExpiry = errors.New("expires_at must be a valid RFC3339 timestamp")
	ErrInvalidCode   = errors.New("custom code must be 3-32 characters of [A-Za-z0-9_-]")
	ErrCodeTaken     = errors.New("code already exists")
	ErrNotFound      = errors.New("link not found")
	ErrExpired       = errors.New("link expired")
	ErrGenerate      = errors.New("failed to generate code")
)

// IsInvalidInput reports whether err is a validation failure the caller can
// correct, as opposed to a conflict or a store error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrInvalidExpiry) ||
		errors.Is(err, ErrInvalidCode)
}
