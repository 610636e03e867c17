// Package audit defines the audit-trail event payloads and the sink
// interface the rest of the application records through.
package audit

import "time"

// Event types recorded by the session layer.
const (
	TypeSessionRestored      = "session_restored"
	TypeSignInSuccess        = "sign_in_success"
	TypeSignInFailed         = "sign_in_failed"
	TypeSignUpSuccess        = "sign_up_success"
	TypeSignUpFailed         = "sign_up_failed"
	TypeSignOut              = "sign_out"
	TypeTokenRefreshed       = "token_refreshed"
	TypeAutoLogout           = "auto_logout"
	TypeCodeRequested        = "verification_code_requested"
	TypePasswordResetDone    = "password_reset_completed"
	TypeAttendanceRecorded   = "attendance_recorded"
	TypeAttendanceMarkAbsent = "attendance_marked_absent"
)

// Event is published for every audited action. UserID is zero when no
// user is known yet (e.g. a failed sign-in). Metadata carries free-form
// context such as the email involved or an error message.
type Event struct {
	ID         string            `json:"id"`
	UserID     uint64            `json:"user_id,omitempty"`
	Type       string            `json:"type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Sink accepts audit events. Implementations must be best-effort:
// recording an event never returns an error to the caller, so a broken
// sink cannot surface as a user-visible failure.
type Sink interface {
	Record(userID uint64, eventType string, metadata map[string]string)
}

// Discard is a Sink that drops every event. Useful in tests and when no
// broker is configured.
type Discard struct{}

func (Discard) Record(uint64, string, map[string]string) {}
