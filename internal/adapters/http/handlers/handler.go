package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"
)

// currentViewer reads the caller set by the auth middleware
func currentViewer(c *fiber.Ctx) (services.Viewer, bool) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return services.Viewer{}, false
	}
	role, _ := c.Locals("role").(string)
	return services.Viewer{UserID: userID, Role: domain.Role(role)}, true
}

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; specific errors come before the
// generic ones they may wrap
var errorMappings = []errorMapping{
	// 404
	{domain.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{domain.ErrEventNotFound, fiber.StatusNotFound, "Event not found"},
	{domain.ErrRegistrationMissing, fiber.StatusNotFound, "Registration not found"},
	{domain.ErrPaymentNotFound, fiber.StatusNotFound, "Payment not found"},
	{domain.ErrLocationNotFound, fiber.StatusNotFound, "Location not found"},
	{domain.ErrGraduationNotFound, fiber.StatusNotFound, "Graduation request not found"},
	{domain.ErrNotFound, fiber.StatusNotFound, "Not found"},

	// 409
	{services.ErrEventFull, fiber.StatusConflict, "No places left for your role"},
	{services.ErrInvalidTransition, fiber.StatusConflict, "Registration cannot change from its current state"},
	{services.ErrEmailAlreadyExists, fiber.StatusConflict, "Email already exists"},
	{services.ErrNationalIDAlreadyExists, fiber.StatusConflict, "Cédula already exists"},
	{services.ErrPaymentNotPending, fiber.StatusConflict, "Payment is not pending approval"},
	{services.ErrGraduationRequested, fiber.StatusConflict, "Graduation already requested"},
	{services.ErrGraduationNotPending, fiber.StatusConflict, "Graduation request is not pending"},
	{domain.ErrAlreadyRegistered, fiber.StatusConflict, "Already registered"},
	{domain.ErrDuplicateEntry, fiber.StatusConflict, "Already exists"},

	// 403
	{services.ErrNotRecruit, fiber.StatusForbidden, "Only recruits can request graduation"},
	{services.ErrRoleNotAvailable, fiber.StatusForbidden, "Role is not assigned to this user"},
	{services.ErrUserInactive, fiber.StatusForbidden, "User account is inactive"},
	{domain.ErrForbidden, fiber.StatusForbidden, "You don't have permission to access this resource"},

	// 401
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},

	// 400
	{services.ErrNotEligible, fiber.StatusBadRequest, "Graduation thresholds not met"},
	{services.ErrPasswordTooShort, fiber.StatusBadRequest, "Password must be at least 6 characters"},
	{services.ErrPasswordMismatch, fiber.StatusBadRequest, "Password confirmation does not match"},
	{services.ErrEmptyVisit, fiber.StatusBadRequest, "A visit needs at least one place"},
	{services.ErrEmptyMessage, fiber.StatusBadRequest, "Message cannot be empty"},
	{services.ErrInvalidAttendance, fiber.StatusBadRequest, "Attendance must be attended or absent"},
	{services.ErrInvalidStatus, fiber.StatusBadRequest, "Invalid status"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "Invalid input"},

	// 503
	{services.ErrRefreshFailed, fiber.StatusServiceUnavailable, "Portal data is temporarily unavailable"},
}

// errorStatus returns the HTTP status and message for a known error.
// Unknown errors report 0.
func errorStatus(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return 0, ""
}

// respondError maps service and store errors to HTTP responses.
// Unknown errors are logged and reported as 500 with the fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return response.ValidationFailed(c, verr.FieldMap())
	}

	status, message := errorStatus(err)
	if status == 0 {
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
	return response.Error(c, status, message)
}

// respondErrorWithData is respondError for failures that still carry a
// usable payload, such as a stale portal snapshot
func respondErrorWithData(c *fiber.Ctx, err error, fallback string, data interface{}) error {
	status, message := errorStatus(err)
	if status == 0 {
		log.Printf("❌ %s: %v", fallback, err)
		status, message = fiber.StatusInternalServerError, fallback
	}
	return c.Status(status).JSON(response.Response{
		Success: false,
		Error:   message,
		Data:    data,
	})
}
