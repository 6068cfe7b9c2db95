package handlers

import (
	"time"

	"payaso-portal/internal/core/services"
	"payaso-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler handles event chats and role-wide announcements
type MessageHandler struct {
	chatService *services.ChatService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(chatService *services.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// EventMessages returns an event chat
// @Summary Event chat
// @Description Messages of an event chat, optionally only those after a timestamp
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param since query string false "RFC3339 timestamp"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/messages [get]
func (h *MessageHandler) EventMessages(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "since must be an RFC3339 timestamp")
		}
		since = parsed
	}

	messages, err := h.chatService.Messages(c.Context(), viewer, c.Params("id"), since)
	if err != nil {
		return respondError(c, err, "Failed to get messages")
	}

	return response.Success(c, "Messages retrieved successfully", fiber.Map{
		"messages": messages,
	})
}

// SendEventMessage posts to an event chat
// @Summary Send chat message
// @Description Post a message to an event chat
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body services.SendMessageInput true "Message"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/messages [post]
func (h *MessageHandler) SendEventMessage(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.SendMessageInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	msg, err := h.chatService.Send(c.Context(), viewer, c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to send message")
	}

	return response.Created(c, "Message sent successfully", fiber.Map{
		"message": msg,
	})
}

// Inbox returns the announcements addressed to the caller
// @Summary Inbox
// @Description Announcements targeting the caller's roles
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /messages [get]
func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	messages, err := h.chatService.Inbox(c.Context(), viewer)
	if err != nil {
		return respondError(c, err, "Failed to get inbox")
	}

	return response.Success(c, "Inbox retrieved successfully", fiber.Map{
		"messages": messages,
	})
}

// SendMass sends an announcement to whole role groups
// @Summary Send announcement
// @Description Send a message to every volunteer holding one of the target roles (Admin only)
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MassMessageInput true "Announcement"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /messages [post]
func (h *MessageHandler) SendMass(c *fiber.Ctx) error {
	viewer, ok := currentViewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.MassMessageInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	msg, err := h.chatService.SendMass(c.Context(), viewer, &req)
	if err != nil {
		return respondError(c, err, "Failed to send announcement")
	}

	return response.Created(c, "Announcement sent successfully", fiber.Map{
		"message": msg,
	})
}
