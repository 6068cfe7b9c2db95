package handlers

import (
	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles the visit location catalogue
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List returns the catalogue
// @Summary List locations
// @Description Active locations; administrators may add all=true to include inactive ones
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive locations"
// @Success 200 {object} response.Response
// @Router /locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	includeInactive := c.QueryBool("all") && viewer.Role.IsAdministrative()

	locations, err := h.locationService.List(c.Context(), includeInactive)
	if err != nil {
		return respondError(c, err, "Failed to list locations")
	}

	return response.Success(c, "Locations retrieved successfully", fiber.Map{
		"locations": locations,
	})
}

// Create adds a location
// @Summary Create location
// @Description Add a location to the catalogue (Admin only)
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.LocationInput true "Location"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var req services.LocationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loc, err := h.locationService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create location")
	}

	return response.Created(c, "Location created successfully", fiber.Map{
		"location": loc,
	})
}

// Update edits a location
// @Summary Update location
// @Description Edit a catalogue entry (Admin only)
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param body body services.LocationInput true "Location"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var req services.LocationInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loc, err := h.locationService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update location")
	}

	return response.Success(c, "Location updated successfully", fiber.Map{
		"location": loc,
	})
}

// Toggle flips a location between active and inactive
// @Summary Toggle location
// @Description Activate or deactivate a catalogue entry (Admin only)
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /locations/{id}/toggle [put]
func (h *LocationHandler) Toggle(c *fiber.Ctx) error {
	loc, err := h.locationService.Toggle(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to toggle location")
	}

	return response.Success(c, "Location updated successfully", fiber.Map{
		"location": loc,
	})
}
