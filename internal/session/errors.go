// Package session implements the authenticated-session state machine:
// sign-in/out, reconciliation of provider push events, the
// verification-code password-reset flow, and the best-effort idle guard.
// Persistence and token issuance are delegated to injected collaborators
// so the state machine itself stays directly testable.
package session

import "errors"

// ErrAuthInvalid marks a session that is missing, tokenless, or expired.
// It is always resolved by clearing local state, never by retry.
var ErrAuthInvalid = errors.New("session invalid")

// ErrInvalidCredentials is returned by providers when the email/password
// pair does not match an active account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Password-reset failures are distinct so callers can show a precise
// message for each case.
var (
	ErrVerificationNotFound = errors.New("verification code not found")
	ErrVerificationExpired  = errors.New("verification code expired")
	ErrVerificationMismatch = errors.New("verification code mismatch")
)
