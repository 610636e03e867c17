package model

import "time"

// Session is the authoritative authenticated-session value. ExpiresAt is
// stored as epoch seconds because that is what the provider's tokens carry.
type Session struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Valid reports whether the session can be trusted at the given instant.
// A tokenless or expired session must be treated as absent, never
// partially trusted.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt > now.Unix()
}
