package session

import (
	"context"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

// ProviderEvent identifies a push notification from the auth provider.
type ProviderEvent string

const (
	EventSignedIn       ProviderEvent = "SIGNED_IN"
	EventSignedOut      ProviderEvent = "SIGNED_OUT"
	EventTokenRefreshed ProviderEvent = "TOKEN_REFRESHED"
	EventOther          ProviderEvent = "OTHER"
)

// Profile carries the metadata attached to a sign-up.
type Profile struct {
	FullName    string
	CompanyName string
}

// Provider is the external auth collaborator. GetSession returns nil with
// no error when no session exists. SignInWithPassword must return
// ErrInvalidCredentials for a bad email/password pair so callers can
// distinguish it from infrastructure failures.
type Provider interface {
	GetSession(ctx context.Context) (*model.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string, profile Profile) (*model.Session, error)
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, email, newPassword string) error
}
