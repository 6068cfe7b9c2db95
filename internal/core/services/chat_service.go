package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/validator"
)

// Chat errors
var (
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// ChatService handles event chats and mass messages
type ChatService struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	events      *EventService
}

// NewChatService creates a new chat service
func NewChatService(store *repositories.Store, events *EventService) *ChatService {
	return &ChatService{
		chatRepo:    store.Chat,
		messageRepo: store.Messages,
		userRepo:    store.Users,
		events:      events,
	}
}

// SendMessageInput represents a chat message
type SendMessageInput struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// MassMessageInput represents a message to whole role groups
type MassMessageInput struct {
	Subject     string   `json:"subject" validate:"required,notblank,max=200"`
	Body        string   `json:"body" validate:"required,notblank"`
	TargetRoles []string `json:"target_roles" validate:"required,min=1,role"`
}

// Messages returns an event chat, only messages after since when it is set
func (s *ChatService) Messages(ctx context.Context, viewer Viewer, eventID string, since time.Time) ([]domain.ChatMessage, error) {
	if _, err := s.events.GetEvent(ctx, viewer, eventID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListByEvent(ctx, eventID, since)
}

// Send posts to an event chat under the sender's display name
func (s *ChatService) Send(ctx context.Context, viewer Viewer, eventID string, input *SendMessageInput) (*domain.ChatMessage, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.events.GetEvent(ctx, viewer, eventID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	photo := user.PhotoURL
	if user.CharacterPhotoURL != "" && user.HasRole(domain.RoleDrPayaso) {
		photo = user.CharacterPhotoURL
	}
	msg := &domain.ChatMessage{
		EventID:   eventID,
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		UserPhoto: photo,
		Text:      text,
		Timestamp: nowFunc(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// SendMass stores a message addressed to one or more role groups
func (s *ChatService) SendMass(ctx context.Context, sender Viewer, input *MassMessageInput) (*domain.SystemMessage, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	msg := &domain.SystemMessage{
		Subject:     strings.TrimSpace(input.Subject),
		Body:        strings.TrimSpace(input.Body),
		TargetRoles: parseRoles(input.TargetRoles),
		SentAt:      nowFunc(),
		SentBy:      sender.UserID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	log.Printf("✅ Mass message sent to %v: %s", msg.TargetRoles, msg.Subject)
	return msg, nil
}

// Inbox returns the mass messages addressed to the viewer's active role.
// Administrative roles see every message.
func (s *ChatService) Inbox(ctx context.Context, viewer Viewer) ([]domain.SystemMessage, error) {
	all, err := s.messageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if viewer.Role.IsAdministrative() {
		return all, nil
	}

	out := make([]domain.SystemMessage, 0, len(all))
	for i := range all {
		if all[i].Targets(viewer.Role) {
			out = append(out, all[i])
		}
	}
	return out, nil
}
