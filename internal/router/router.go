// Package router registers the HTTP routes and their middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Neon-Gen/finovix-sub000/internal/handler"
	"github.com/Neon-Gen/finovix-sub000/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Unauthenticated operations
// live under /v1/auth and are rate-limited per IP; session-derived
// endpoints live under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rdb, 30, time.Minute))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Host-UI lifecycle hook for the idle guard.
	auth.POST("/session/visibility", a.Visibility)
}

// RegisterPayroll registers the employee and attendance endpoints, all
// JWT-protected and scoped to the authenticated owner.
func RegisterPayroll(e *echo.Echo, emp *handler.EmployeeHandler, att *handler.AttendanceHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.POST("/employees", emp.Create)
	g.GET("/employees", emp.List)
	g.GET("/employees/:id", emp.Get)

	g.POST("/attendance", att.Upsert)
	g.POST("/attendance/absent", att.MarkAbsent)
	g.GET("/employees/:id/attendance", att.List)
	g.GET("/employees/:id/summary", att.Summary)
}
