// Package middleware holds the Echo middleware of the booking API.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window per-client rate limiter backed by
// Redis.  Each client IP gets `limit` requests per `window`; exceeding
// the budget yields 429 with a Retry-After header.  When rdb is nil or
// Redis errors, requests pass through so an unavailable Redis never
// takes the booking API down with it.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if window < time.Second {
		window = time.Second
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			bucket := time.Now().Unix() / int64(window/time.Second)
			key := fmt.Sprintf("rate:%s:%d", c.RealIP(), bucket)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				// First hit in this window owns the expiry.
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if count > int64(limit) {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(window/time.Second)))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
