package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Neon-Gen/finovix-sub000/internal/audit"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

// State enumerates the authenticator lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Authenticator owns exactly one authoritative session value and
// reconciles it against the provider's state-change notifications. All
// reconciliation runs under a single mutex so overlapping provider
// events can never interleave their reads and writes of session state;
// the loading flag brackets every path so observers never see a
// half-applied update.
type Authenticator struct {
	mu       sync.Mutex
	provider Provider
	codes    CodeStore
	delivery CodeDelivery
	sink     audit.Sink
	now      func() time.Time

	state   State
	loading bool
	session *model.Session
}

// Option customises an Authenticator.
type Option func(*Authenticator)

// WithClock replaces the wall clock, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithCodeDelivery replaces the default log-only code delivery.
func WithCodeDelivery(d CodeDelivery) Option {
	return func(a *Authenticator) { a.delivery = d }
}

// New builds an Authenticator in the Uninitialized state.
func New(provider Provider, codes CodeStore, sink audit.Sink, opts ...Option) *Authenticator {
	if sink == nil {
		sink = audit.Discard{}
	}
	a := &Authenticator{
		provider: provider,
		codes:    codes,
		delivery: LogDelivery{},
		sink:     sink,
		now:      time.Now,
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current lifecycle state.
func (a *Authenticator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Loading reports whether a reconciliation is in flight.
func (a *Authenticator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Session returns a copy of the current session, or nil when signed out.
func (a *Authenticator) Session() *model.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	cp := *a.session
	return &cp
}

// Initialize fetches the current session from the provider. A fetch
// error, missing session, or expired session moves the authenticator to
// Unauthenticated and invalidates any lingering remote session
// best-effort; provider errors during that cleanup are swallowed. A
// valid session is adopted and a session_restored event recorded.
func (a *Authenticator) Initialize(ctx context.Context) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
	a.state = StateLoading
	defer func() { a.loading = false }()

	sess, err := a.provider.GetSession(ctx)
	if err != nil {
		log.Printf("session: initialize: provider fetch failed: %v", err)
		a.clearLocked(ctx, true)
		return a.state
	}
	if !sess.Valid(a.now()) {
		a.clearLocked(ctx, true)
		return a.state
	}
	a.adoptLocked(sess, audit.TypeSessionRestored)
	return a.state
}

// HandleProviderEvent applies one asynchronous push notification from
// the provider. Invocations are serialized; each runs with the loading
// flag forced true on entry and false on exit regardless of outcome.
func (a *Authenticator) HandleProviderEvent(ctx context.Context, event ProviderEvent, sess *model.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
	defer func() { a.loading = false }()

	switch {
	case event == EventSignedOut:
		// Unconditional: the provider says the session is gone.
		a.clearLocked(ctx, false)
	case event == EventSignedIn && (sess == nil || sess.AccessToken == ""):
		// Never trust a sign-in notification without a usable token.
		a.clearLocked(ctx, false)
	case event == EventTokenRefreshed && sess == nil:
		// Refresh failed upstream.
		a.clearLocked(ctx, false)
	case sess == nil:
		a.clearLocked(ctx, false)
	case !sess.Valid(a.now()):
		a.clearLocked(ctx, true)
	default:
		typ := audit.TypeSignInSuccess
		if event == EventTokenRefreshed {
			typ = audit.TypeTokenRefreshed
		}
		a.adoptLocked(sess, typ)
	}
}

// SignIn delegates to the provider. On success the returned session is
// adopted immediately, so no follow-up Initialize is needed. Failures
// record a sign_in_failed event carrying the email and error message
// (never a user id, since none exists yet).
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		a.sink.Record(0, audit.TypeSignInFailed, map[string]string{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
	defer func() { a.loading = false }()
	a.adoptLocked(sess, "")
	a.sink.Record(sess.UserID, audit.TypeSignInSuccess, map[string]string{"email": sess.Email})
	cp := *a.session
	return &cp, nil
}

// SignUp delegates to the provider with profile metadata attached and
// adopts the resulting session.
func (a *Authenticator) SignUp(ctx context.Context, email, password string, profile Profile) (*model.Session, error) {
	sess, err := a.provider.SignUp(ctx, email, password, profile)
	if err != nil {
		a.sink.Record(0, audit.TypeSignUpFailed, map[string]string{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
	defer func() { a.loading = false }()
	a.adoptLocked(sess, "")
	a.sink.Record(sess.UserID, audit.TypeSignUpSuccess, map[string]string{"email": sess.Email})
	cp := *a.session
	return &cp, nil
}

// SignOut clears local state unconditionally. The sign_out event is
// recorded only when a user id is known; a provider failure during the
// remote sign-out is logged but never blocks the local clear.
func (a *Authenticator) SignOut(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = true
	defer func() { a.loading = false }()

	if a.session != nil && a.session.UserID != 0 {
		a.sink.Record(a.session.UserID, audit.TypeSignOut, map[string]string{"email": a.session.Email})
	}
	if err := a.provider.SignOut(ctx); err != nil {
		log.Printf("session: remote sign-out failed: %v", err)
	}
	a.session = nil
	a.state = StateUnauthenticated
}

// RequestPasswordReset issues a fresh 7-digit code with a 10-minute
// expiry, overwriting any prior code for the email, and hands it to the
// delivery backend. The code is returned for the caller's own use (tests,
// alternative delivery); HTTP handlers must not echo it to clients.
func (a *Authenticator) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	vc := model.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: a.now().Add(CodeTTL),
	}
	if err := a.codes.Put(ctx, vc); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	a.sink.Record(0, audit.TypeCodeRequested, map[string]string{"email": email})
	if err := a.delivery.Deliver(ctx, email, code); err != nil {
		return "", fmt.Errorf("deliver code: %w", err)
	}
	return code, nil
}

// VerifyResetCode consumes a stored code and updates the password.
// The three failure kinds are distinct: ErrVerificationNotFound when no
// code exists for the email, ErrVerificationExpired (which also removes
// the stale entry), and ErrVerificationMismatch. Success deletes the
// code before performing the password update, making it single-use.
func (a *Authenticator) VerifyResetCode(ctx context.Context, email, code, newPassword string) error {
	vc, err := a.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if vc.Expired(a.now()) {
		_ = a.codes.Delete(ctx, email)
		return ErrVerificationExpired
	}
	if vc.Code != code {
		return ErrVerificationMismatch
	}
	if err := a.codes.Delete(ctx, email); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if err := a.provider.UpdatePassword(ctx, email, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	a.sink.Record(0, audit.TypePasswordResetDone, map[string]string{"email": email})
	return nil
}

// adoptLocked installs sess as the authoritative session. When
// eventType is non-empty an audit event is recorded with the session's
// user id. Caller holds the mutex.
func (a *Authenticator) adoptLocked(sess *model.Session, eventType string) {
	cp := *sess
	a.session = &cp
	a.state = StateAuthenticated
	if eventType != "" {
		a.sink.Record(cp.UserID, eventType, map[string]string{"email": cp.Email})
	}
}

// clearLocked drops local state. When remote is true a best-effort
// provider sign-out runs first; its errors are swallowed because the
// local clear must always win. Caller holds the mutex.
func (a *Authenticator) clearLocked(ctx context.Context, remote bool) {
	if remote {
		if err := a.provider.SignOut(ctx); err != nil {
			log.Printf("session: cleanup sign-out failed: %v", err)
		}
	}
	a.session = nil
	a.state = StateUnauthenticated
}
