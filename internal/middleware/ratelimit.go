package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window limiter keyed by client IP and route,
// intended for the unauthenticated auth endpoints (login, register,
// forgot-password). The window state lives in Redis so limits hold
// across instances. When rdb is nil the middleware is a no-op: losing
// Redis degrades protection, it never degrades availability.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("rl:%s:%s", c.RealIP(), c.Path())

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble: let the request through.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(limit) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				if ttl > 0 {
					c.Response().Header().Set("Retry-After",
						fmt.Sprintf("%d", int(ttl/time.Second)+1))
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
