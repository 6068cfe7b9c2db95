package handlers

import (
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PortalHandler serves the per-user working snapshot
type PortalHandler struct {
	portalService *services.PortalService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portalService *services.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

// GetSnapshot returns the caller's snapshot, loading it on first use
// @Summary Portal snapshot
// @Description The caller's events, history, payments, stats and compliance in one document
// @Tags Portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /portal [get]
func (h *PortalHandler) GetSnapshot(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	snap, err := h.portalService.Current(c.Context(), viewer)
	if err != nil {
		return respondError(c, err, "Failed to load portal")
	}

	return response.Success(c, "Portal retrieved successfully", snap)
}

// Refresh reloads the caller's snapshot
// @Summary Refresh portal
// @Description Reload every source; on failure the previous snapshot is returned flagged stale
// @Tags Portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /portal/refresh [post]
func (h *PortalHandler) Refresh(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	snap, err := h.portalService.Refresh(c.Context(), viewer)
	if err != nil {
		if snap != nil {
			return respondErrorWithData(c, err, "Failed to refresh portal", snap)
		}
		return respondError(c, err, "Failed to refresh portal")
	}

	return response.Success(c, "Portal refreshed successfully", snap)
}
