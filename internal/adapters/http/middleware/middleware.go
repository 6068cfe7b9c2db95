package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"payaso-portal/internal/config"
	"payaso-portal/internal/pkg/response"
)

// Portal request budgets
const (
	apiRequestsPerMinute   = 120
	loginAttemptsPerMinute = 5
	passwordChangesPerMin  = 3
	paymentReportsPerHour  = 10
	chatMessagesPerMinute  = 30
	massMessagesPerHour    = 5
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Receipts and character photos are external URLs, so images may load cross-origin
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=(self)",
	}))

	app.Use(rateLimit(apiRequestsPerMinute, time.Minute, "api", "Demasiadas solicitudes, espera un momento"))

	format := "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:userID}\n"
	if !cfg.IsDev() {
		format = "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:userID} | ${error}\n"
	}
	app.Use(logger.New(logger.Config{
		Format:     format,
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// The SPA sends the access_token cookie, so production origins must be explicit
	origins := "*"
	if !cfg.IsDev() {
		origins = cfg.GetAllowedOrigins()
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: origins != "*",
	}))
}

// AuthRateLimiter limits login attempts per IP
func AuthRateLimiter() fiber.Handler {
	return rateLimit(loginAttemptsPerMinute, time.Minute, "login", "Demasiados intentos de inicio de sesión, espera un minuto")
}

// StrictRateLimiter limits password changes
func StrictRateLimiter() fiber.Handler {
	return rateLimit(passwordChangesPerMin, time.Minute, "password", "Espera un momento antes de intentarlo de nuevo")
}

// PaymentReportLimiter limits dues reports per volunteer
func PaymentReportLimiter() fiber.Handler {
	return rateLimit(paymentReportsPerHour, time.Hour, "payment-report", "Ya reportaste varios pagos, intenta más tarde")
}

// ChatLimiter limits event chat posts per volunteer
func ChatLimiter() fiber.Handler {
	return rateLimit(chatMessagesPerMinute, time.Minute, "chat", "Estás enviando mensajes demasiado rápido")
}

// MassMessageLimiter limits mass messages per sender
func MassMessageLimiter() fiber.Handler {
	return rateLimit(massMessagesPerHour, time.Hour, "mass-message", "Límite de mensajes masivos alcanzado, intenta más tarde")
}

// rateLimit keys on the authenticated user when there is one, otherwise on the IP
func rateLimit(max int, window time.Duration, scope, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("userID").(string); ok && userID != "" {
				return scope + ":user:" + userID
			}
			return scope + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// CustomErrorHandler handles errors globally
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Error(c, code, message)
}
