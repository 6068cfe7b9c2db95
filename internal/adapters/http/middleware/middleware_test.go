package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentReportLimiter_PerUser(t *testing.T) {
	app := fiber.New()
	app.Post("/payments", func(c *fiber.Ctx) error {
		if id := c.Get("X-User"); id != "" {
			c.Locals("userID", id)
		}
		return c.Next()
	}, PaymentReportLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/payments", nil)
		req.Header.Set("X-User", user)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	for i := 0; i < paymentReportsPerHour; i++ {
		require.Equal(t, fiber.StatusCreated, send("u1"))
	}
	assert.Equal(t, fiber.StatusTooManyRequests, send("u1"))
	assert.Equal(t, fiber.StatusCreated, send("u3"), "budgets are per volunteer")
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusGone, "gone")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)
}
