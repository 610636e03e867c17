package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Neon-Gen/finovix-sub000/internal/audit"
)

// IdleThreshold is how long the application may stay hidden before the
// next visibility change forces a sign-out.
const IdleThreshold = 5 * time.Minute

// FlagStore persists the app-closed marker between process lifetimes.
// Take returns whether the flag was set and clears it in the same call.
type FlagStore interface {
	Set(ctx context.Context, userID uint64) error
	Take(ctx context.Context, userID uint64) (bool, error)
}

// MemoryFlagStore keeps closed flags in memory. Tests and Redis-less
// deployments use it.
type MemoryFlagStore struct {
	mu    sync.Mutex
	flags map[uint64]bool
}

func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: make(map[uint64]bool)}
}

func (s *MemoryFlagStore) Set(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[userID] = true
	return nil
}

func (s *MemoryFlagStore) Take(_ context.Context, userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.flags[userID]
	delete(s.flags, userID)
	return set, nil
}

// IdleGuard is a best-effort security control, not a cryptographic
// guarantee: it forces a sign-out when the host UI reports the app was
// hidden longer than IdleThreshold, or once after the app was fully
// closed. The host invokes the On* hooks; the guard never calls back
// into the UI.
type IdleGuard struct {
	mu        sync.Mutex
	auth      *Authenticator
	flags     FlagStore
	now       func() time.Time
	threshold time.Duration
	hiddenAt  time.Time
}

// NewIdleGuard wires the guard to an authenticator and a flag store.
func NewIdleGuard(auth *Authenticator, flags FlagStore) *IdleGuard {
	return &IdleGuard{
		auth:      auth,
		flags:     flags,
		now:       time.Now,
		threshold: IdleThreshold,
	}
}

// OnAppHidden records the instant the application left the foreground.
func (g *IdleGuard) OnAppHidden(_ context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hiddenAt = g.now()
}

// OnAppVisible checks the hidden duration and forces a sign-out when it
// exceeded the threshold.
func (g *IdleGuard) OnAppVisible(ctx context.Context) {
	g.mu.Lock()
	hiddenAt := g.hiddenAt
	g.hiddenAt = time.Time{}
	g.mu.Unlock()

	if hiddenAt.IsZero() {
		return
	}
	if g.now().Sub(hiddenAt) > g.threshold {
		g.forceLogout(ctx, "hidden_too_long")
	}
}

// OnAppClosed persists the closed flag so the next focus can act on it.
func (g *IdleGuard) OnAppClosed(ctx context.Context) {
	sess := g.auth.Session()
	if sess == nil {
		return
	}
	if err := g.flags.Set(ctx, sess.UserID); err != nil {
		log.Printf("session: persist closed flag failed: %v", err)
	}
}

// OnAppFocused forces a one-time sign-out if the closed flag was set,
// clearing the flag in the same step.
func (g *IdleGuard) OnAppFocused(ctx context.Context) {
	sess := g.auth.Session()
	if sess == nil {
		return
	}
	set, err := g.flags.Take(ctx, sess.UserID)
	if err != nil {
		log.Printf("session: read closed flag failed: %v", err)
		return
	}
	if set {
		g.forceLogout(ctx, "app_closed")
	}
}

func (g *IdleGuard) forceLogout(ctx context.Context, reason string) {
	sess := g.auth.Session()
	if sess == nil {
		return
	}
	g.auth.sink.Record(sess.UserID, audit.TypeAutoLogout, map[string]string{"reason": reason})
	g.auth.SignOut(ctx)
}
