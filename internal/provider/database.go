// Package provider implements session.Provider over the MySQL
// repositories: bcrypt-verified users, HS256 access tokens, and hashed,
// rotated refresh tokens.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Neon-Gen/finovix-sub000/internal/config"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
	"github.com/Neon-Gen/finovix-sub000/internal/session"
	"github.com/Neon-Gen/finovix-sub000/internal/utils"
)

// Database is the concrete auth provider. It remembers the session it
// issued most recently; the authenticator reconciles against that value
// through GetSession, the same way the hosted provider's client caches
// its current session.
type Database struct {
	cfg    config.Config
	users  *repository.UserRepo
	tokens *repository.TokenRepo

	mu      sync.Mutex
	current *model.Session
}

func NewDatabase(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *Database {
	return &Database{cfg: cfg, users: users, tokens: tokens}
}

// GetSession returns a copy of the provider's current session, or nil
// when none exists. It never fabricates a session from storage alone.
func (p *Database) GetSession(_ context.Context) (*model.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	cp := *p.current
	return &cp, nil
}

// SignInWithPassword verifies credentials and issues a fresh
// access/refresh pair. Unknown emails and wrong passwords both map to
// session.ErrInvalidCredentials so callers cannot probe for accounts.
func (p *Database) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, session.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, session.ErrInvalidCredentials
	}
	return p.issue(ctx, u)
}

// SignUp creates the account with profile metadata attached and signs
// it in immediately.
func (p *Database) SignUp(ctx context.Context, email, password string, profile session.Profile) (*model.Session, error) {
	uid, err := p.users.Create(ctx, email, password, profile.FullName, profile.CompanyName, p.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	u, err := p.users.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load new user: %w", err)
	}
	return p.issue(ctx, u)
}

// SignOut revokes every refresh token of the current session's user and
// forgets the session.
func (p *Database) SignOut(ctx context.Context) error {
	p.mu.Lock()
	cur := p.current
	p.current = nil
	p.mu.Unlock()

	if cur == nil {
		return nil
	}
	return p.tokens.RevokeAllForUser(ctx, cur.UserID)
}

// UpdatePassword rehashes the password and revokes all outstanding
// refresh tokens so stolen tokens die with the old password.
func (p *Database) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if err := p.users.UpdatePassword(ctx, email, newPassword, p.cfg.BcryptCost); err != nil {
		return err
	}
	u, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return p.tokens.RevokeAllForUser(ctx, u.ID)
}

// Rotate validates a raw refresh token, revokes it, and issues a new
// pair for its owner. Invalid, revoked and expired tokens all return
// repository.ErrTokenInvalid.
func (p *Database) Rotate(ctx context.Context, rawRefresh string) (*model.Session, error) {
	hash := utils.HashRefreshRaw(rawRefresh)
	userID, err := p.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := p.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, fmt.Errorf("revoke old refresh: %w", err)
	}
	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return p.issue(ctx, u)
}

// RevokeRefresh revokes one specific refresh token, for single-session
// logout.
func (p *Database) RevokeRefresh(ctx context.Context, rawRefresh string) error {
	return p.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(rawRefresh))
}

// issue mints an access/refresh pair for the user, persists the refresh
// hash, and records the result as the provider's current session.
func (p *Database) issue(ctx context.Context, u model.User) (*model.Session, error) {
	access, err := utils.NewAccessToken(p.cfg.JWTSecret, u.ID, u.Email, p.cfg.AccessTTLMin)
	if err != nil {
		return nil, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(p.cfg.RefreshTTLDays)
	if err != nil {
		return nil, fmt.Errorf("issue refresh: %w", err)
	}
	if err := p.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, fmt.Errorf("save refresh: %w", err)
	}

	sess := &model.Session{
		UserID:       u.ID,
		Email:        u.Email,
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp.Unix(),
	}
	p.mu.Lock()
	cp := *sess
	p.current = &cp
	p.mu.Unlock()
	return sess, nil
}
