package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CacheControl lets clients keep successful GET responses for maxAge.
// Responses are per user, so shared caches must not store them.
func CacheControl(maxAge time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Process request first
		err := c.Next()

		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, "private, max-age="+strconv.Itoa(int(maxAge.Seconds())))
		}
		return err
	}
}

// NoStore marks responses as never cacheable (tokens, live portal state)
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "no-store")
		return err
	}
}

// CatalogCache caches reference data such as locations for five minutes
func CatalogCache() fiber.Handler {
	return CacheControl(5 * time.Minute)
}
