package handlers

import (
	"github.com/gofiber/fiber/v2"

	"payaso-portal/internal/config"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Payaso Portal API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"data":    h.cfg.DataSource,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and data source health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	// The mock data source lives in memory and is always available
	storeStatus := "healthy"
	if h.cfg.UsesDatabase() {
		if err := config.HealthCheck(); err != nil {
			storeStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"api":         "healthy",
			"data_source": h.cfg.DataSource,
			"store":       storeStatus,
		},
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1 [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": "1.0",
		"name":    "Payaso Portal API",
		"endpoints": fiber.Map{
			"auth":       "/api/v1/auth",
			"portal":     "/api/v1/portal",
			"events":     "/api/v1/events",
			"payments":   "/api/v1/payments",
			"graduation": "/api/v1/graduation",
			"locations":  "/api/v1/locations",
			"messages":   "/api/v1/messages",
			"dashboard":  "/api/v1/dashboard",
			"users":      "/api/v1/users",
			"treasury":   "/api/v1/treasury",
		},
	})
}
