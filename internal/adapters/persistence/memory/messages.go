package memory

import (
	"context"
	"time"

	"payaso-portal/internal/core/domain"
)

type chatRepository struct {
	s *Store
}

func (r *chatRepository) ListByEvent(ctx context.Context, eventID string, since time.Time) ([]domain.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.ChatMessage, 0)
	for _, m := range r.s.chat {
		if m.EventID != eventID {
			continue
		}
		if !since.IsZero() && !m.Timestamp.After(since) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = newID(msg.ID)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = r.s.now()
	}
	r.s.chat = append(r.s.chat, *msg)
	return nil
}

type messageRepository struct {
	s *Store
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.SystemMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = newID(msg.ID)
	if msg.SentAt.IsZero() {
		msg.SentAt = r.s.now()
	}
	row := *msg
	row.TargetRoles = append([]domain.Role(nil), msg.TargetRoles...)
	r.s.messages = append(r.s.messages, row)
	return nil
}

// List returns mass messages, newest first
func (r *messageRepository) List(ctx context.Context) ([]domain.SystemMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.SystemMessage, 0, len(r.s.messages))
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		out = append(out, r.s.messages[i])
	}
	return out, nil
}
