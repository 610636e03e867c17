package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Neon-Gen/finovix-sub000/internal/middleware"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
	"github.com/Neon-Gen/finovix-sub000/internal/session"
)

// TokenRotator is the refresh-token plumbing the session state machine
// does not care about. The database provider implements it.
type TokenRotator interface {
	Rotate(ctx context.Context, rawRefresh string) (*model.Session, error)
	RevokeRefresh(ctx context.Context, rawRefresh string) error
}

// AuthHandler bundles dependencies for the auth endpoints. The
// authenticator owns the session state machine.
type AuthHandler struct {
	Auth   *session.Authenticator
	Tokens TokenRotator
	Guard  *session.IdleGuard
}

func NewAuthHandler(a *session.Authenticator, t TokenRotator, g *session.IdleGuard) *AuthHandler {
	return &AuthHandler{Auth: a, Tokens: t, Guard: g}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}
type visibilityReq struct {
	State string `json:"state"` // hidden | visible | closed | focused
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}
type sessionResp struct {
	User         userPart `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
}

func toSessionResp(s *model.Session) sessionResp {
	return sessionResp{
		User:         userPart{ID: s.UserID, Email: s.Email},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Register creates an account and signs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	sess, err := h.Auth.SignUp(c.Request().Context(), req.Email, req.Password, session.Profile{
		FullName:    strings.TrimSpace(req.FullName),
		CompanyName: strings.TrimSpace(req.CompanyName),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign up failed"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(sess))
}

// Login verifies credentials and returns a new session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	sess, err := h.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign in failed"})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// Refresh rotates a refresh token and reconciles the state machine with
// the outcome, exactly as a provider push notification would.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx := c.Request().Context()

	sess, err := h.Tokens.Rotate(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		// Failed refresh: the state machine must fall back to signed out.
		h.Auth.HandleProviderEvent(ctx, session.EventTokenRefreshed, nil)
		if errors.Is(err, repository.ErrTokenInvalid) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	h.Auth.HandleProviderEvent(ctx, session.EventTokenRefreshed, sess)
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// Logout revokes the supplied refresh token. Possession of the raw
// token is the proof of ownership here: the shared session state is
// cleared only when the token matches the current session, so an
// anonymous or foreign request can never sign out another user. The
// response is 204 either way; revocation is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	ctx := c.Request().Context()
	raw := strings.TrimSpace(req.RefreshToken)

	if err := h.Tokens.RevokeRefresh(ctx, raw); err != nil {
		c.Logger().Warnf("logout: revoke refresh failed: %v", err)
	}
	if sess := h.Auth.Session(); sess != nil && sess.RefreshToken == raw {
		h.Auth.SignOut(ctx)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword starts the verification-code reset flow. The response
// is the same whether or not the email exists, and the code itself is
// never included: it travels through the delivery backend.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	if _, err := h.Auth.RequestPasswordReset(c.Request().Context(), email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "verification code sent"})
}

// ResetPassword consumes a verification code. Each failure kind maps to
// its own message so the UI can be precise.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Code == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code/new_password required"})
	}

	err := h.Auth.VerifyResetCode(c.Request().Context(), email, strings.TrimSpace(req.Code), req.NewPassword)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
	case errors.Is(err, session.ErrVerificationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no verification code requested"})
	case errors.Is(err, session.ErrVerificationExpired):
		return c.JSON(http.StatusGone, echo.Map{"error": "verification code expired"})
	case errors.Is(err, session.ErrVerificationMismatch):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "verification code incorrect"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
}

// Visibility is the host-UI hook feeding the idle guard. The UI reports
// lifecycle transitions; the guard decides whether they force a logout.
// The hooks run only when the caller owns the current session, so one
// user's lifecycle reports cannot sign out another.
func (h *AuthHandler) Visibility(c echo.Context) error {
	var req visibilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if sess := h.Auth.Session(); sess == nil || sess.UserID != middleware.UserID(c) {
		return c.JSON(http.StatusOK, echo.Map{"state": h.Auth.State().String()})
	}
	ctx := c.Request().Context()

	switch strings.ToLower(strings.TrimSpace(req.State)) {
	case "hidden":
		h.Guard.OnAppHidden(ctx)
	case "visible":
		h.Guard.OnAppVisible(ctx)
	case "closed":
		h.Guard.OnAppClosed(ctx)
	case "focused":
		h.Guard.OnAppFocused(ctx)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "state must be hidden|visible|closed|focused"})
	}
	return c.JSON(http.StatusOK, echo.Map{"state": h.Auth.State().String()})
}

// Me returns the authenticated identity extracted by the JWT middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"email":   c.Get("email"),
	})
}
