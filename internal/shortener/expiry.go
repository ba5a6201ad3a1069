package shortener

import "time"

// IsExpired reports whether a link with the given expires_at value is expired
// at now. An empty value never expires. A value that fails to parse is
// treated as already expired rather than permanently valid.
func IsExpired(expiresAt string, now time.Time) bool {
	if expiresAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return true
	}
	return !now.Before(t)
}
