package handlers

import (
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles dues payments and the treasury view
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListMine returns the caller's payments
// @Summary My payments
// @Description The caller's dues payments, pending first
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/my [get]
func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	payments, err := h.paymentService.ListMine(c.Context(), viewer.UserID)
	if err != nil {
		return respondError(c, err, "Failed to get payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}

// ListAll returns every payment
// @Summary List payments
// @Description Every dues payment, pending first (Finance only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) ListAll(c *fiber.Ctx) error {
	payments, err := h.paymentService.ListAll(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
		"total":    len(payments),
	})
}

// Report records a dues payment
// @Summary Report payment
// @Description Report a dues payment for approval; finance staff may record payments for others
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ReportPaymentInput true "Payment"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Report(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ReportPaymentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Report(c.Context(), viewer, &req)
	if err != nil {
		return respondError(c, err, "Failed to report payment")
	}

	return response.Created(c, "Payment reported successfully", fiber.Map{
		"payment": payment,
	})
}

// Approve marks a pending payment as paid
// @Summary Approve payment
// @Description Approve a pending payment (Finance only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{id}/approve [put]
func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	payment, err := h.paymentService.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to approve payment")
	}

	return response.Success(c, "Payment approved successfully", fiber.Map{
		"payment": payment,
	})
}

// Reject rejects a pending payment
// @Summary Reject payment
// @Description Reject a pending payment (Finance only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{id}/reject [put]
func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	payment, err := h.paymentService.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to reject payment")
	}

	return response.Success(c, "Payment rejected successfully", fiber.Map{
		"payment": payment,
	})
}

// Treasury returns the compliance overview
// @Summary Treasury overview
// @Description Monthly collection and per-volunteer dues compliance (Staff only)
// @Tags Treasury
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /treasury [get]
func (h *PaymentHandler) Treasury(c *fiber.Ctx) error {
	overview, err := h.paymentService.Treasury(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to get treasury overview")
	}

	return response.Success(c, "Treasury overview retrieved successfully", overview)
}
