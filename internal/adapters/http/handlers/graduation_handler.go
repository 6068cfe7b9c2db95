package handlers

import (
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GraduationHandler handles recruit graduation
type GraduationHandler struct {
	graduationService *services.GraduationService
}

// NewGraduationHandler creates a new graduation handler
func NewGraduationHandler(graduationService *services.GraduationService) *GraduationHandler {
	return &GraduationHandler{graduationService: graduationService}
}

// Progress returns the caller's graduation progress
// @Summary Graduation progress
// @Description Training hours, visits and the latest graduation request of the caller
// @Tags Graduation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /graduation/progress [get]
func (h *GraduationHandler) Progress(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	view, err := h.graduationService.Progress(c.Context(), viewer.UserID)
	if err != nil {
		return respondError(c, err, "Failed to get graduation progress")
	}

	return response.Success(c, "Graduation progress retrieved successfully", view)
}

// Request files a graduation request
// @Summary Request graduation
// @Description File a graduation request once the thresholds are met (Recruits only)
// @Tags Graduation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /graduation/request [post]
func (h *GraduationHandler) Request(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := h.graduationService.Request(c.Context(), viewer.UserID)
	if err != nil {
		return respondError(c, err, "Failed to request graduation")
	}

	return response.Created(c, "Graduation requested successfully", fiber.Map{
		"request": req,
	})
}

// ListPending lists requests awaiting a decision
// @Summary Pending graduations
// @Description Pending graduation requests with current progress (Admin only)
// @Tags Graduation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /graduation/requests [get]
func (h *GraduationHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.graduationService.ListPending(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list graduation requests")
	}

	return response.Success(c, "Graduation requests retrieved successfully", fiber.Map{
		"requests": pending,
		"total":    len(pending),
	})
}

// Approve graduates the recruit
// @Summary Approve graduation
// @Description Approve a request; the recruit becomes a Dr. Payaso (Admin only)
// @Tags Graduation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /graduation/requests/{id}/approve [put]
func (h *GraduationHandler) Approve(c *fiber.Ctx) error {
	req, err := h.graduationService.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to approve graduation")
	}

	return response.Success(c, "Graduation approved successfully", fiber.Map{
		"request": req,
	})
}

// Reject rejects a graduation request
// @Summary Reject graduation
// @Description Reject a pending request (Admin only)
// @Tags Graduation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /graduation/requests/{id}/reject [put]
func (h *GraduationHandler) Reject(c *fiber.Ctx) error {
	req, err := h.graduationService.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to reject graduation")
	}

	return response.Success(c, "Graduation rejected successfully", fiber.Map{
		"request": req,
	})
}
