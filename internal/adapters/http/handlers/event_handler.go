package handlers

import (
	"payaso-portal/internal/core/engine"
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles trainings, visits and registrations
type EventHandler struct {
	eventService  *services.EventService
	portalService *services.PortalService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, portalService *services.PortalService) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		portalService: portalService,
	}
}

// ListEvents lists the events visible to the caller
// @Summary List events
// @Description Events visible to the caller's active role, with their registration status
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category query string false "all, training or visit" default(all)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /events [get]
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	events, err := h.eventService.ListForViewer(c.Context(), viewer, engine.ParseCategory(c.Query("category")))
	if err != nil {
		return respondError(c, err, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", fiber.Map{
		"events": events,
		"total":  len(events),
	})
}

// History returns upcoming and past registrations
// @Summary Event history
// @Description The caller's registrations split into upcoming and past
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /events/history [get]
func (h *EventHandler) History(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	history, err := h.eventService.History(c.Context(), viewer)
	if err != nil {
		return respondError(c, err, "Failed to get history")
	}

	return response.Success(c, "History retrieved successfully", history)
}

// GetEvent returns a single event
// @Summary Get event
// @Description Get an event by ID
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	event, err := h.eventService.GetEvent(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get event")
	}

	return response.Success(c, "Event retrieved successfully", fiber.Map{
		"event": event,
	})
}

// CreateEvent creates a training or a visit
// @Summary Create event
// @Description Create a training or a visit with per-role places (Admin only)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEventInput true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateEventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.Context(), viewer.UserID, &req)
	if err != nil {
		return respondError(c, err, "Failed to create event")
	}

	return response.Created(c, "Event created successfully", fiber.Map{
		"event": event,
	})
}

// Register books the caller into an event
// @Summary Register for event
// @Description Register under the caller's active role
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/registration [post]
func (h *EventHandler) Register(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	event, err := h.eventService.Register(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to register")
	}

	return response.Success(c, "Registered successfully", fiber.Map{
		"event": event,
	})
}

// Unregister cancels the caller's registration
// @Summary Cancel registration
// @Description Cancel the caller's registration for an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/registration [delete]
func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	event, err := h.eventService.Unregister(c.Context(), viewer, c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to cancel registration")
	}

	return response.Success(c, "Registration cancelled successfully", fiber.Map{
		"event": event,
	})
}

// Toggle registers or unregisters optimistically against the portal snapshot
// @Summary Toggle registration
// @Description Register when not registered, cancel otherwise. A failed write returns the restored snapshot.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/toggle [post]
func (h *EventHandler) Toggle(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.portalService.Toggle(c.Context(), viewer, c.Params("id"))
	if err != nil {
		if result != nil {
			return respondErrorWithData(c, err, "Failed to toggle registration", result)
		}
		return respondError(c, err, "Failed to toggle registration")
	}

	return response.Success(c, "Registration updated successfully", result)
}

// Attendees lists the registrations of an event
// @Summary Event attendees
// @Description Registered volunteers with their role and status (Admin only)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/attendees [get]
func (h *EventHandler) Attendees(c *fiber.Ctx) error {
	records, err := h.eventService.Attendees(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get attendees")
	}

	return response.Success(c, "Attendees retrieved successfully", fiber.Map{
		"attendees": records,
		"total":     len(records),
	})
}

// MarkAttendance records whether a volunteer attended
// @Summary Mark attendance
// @Description Mark a registration as attended or absent (Admin only)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Param body body services.MarkAttendanceInput true "Attendance"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/attendance/{userId} [put]
func (h *EventHandler) MarkAttendance(c *fiber.Ctx) error {
	var req services.MarkAttendanceInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reg, err := h.eventService.MarkAttendance(c.Context(), c.Params("id"), c.Params("userId"), &req)
	if err != nil {
		return respondError(c, err, "Failed to mark attendance")
	}

	return response.Success(c, "Attendance recorded successfully", fiber.Map{
		"registration": reg,
	})
}
