package model

import "time"

// VerificationCode is a single-use password-reset code keyed by email.
// At most one live code exists per email; a new request overwrites the
// previous one.
type VerificationCode struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"` // 7 ASCII digits
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given
// instant.
func (v VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
