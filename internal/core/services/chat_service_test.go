package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/core/domain"
)

func TestChatService_EventChat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.chat.Send(ctx, drRisas, "e1", &SendMessageInput{Text: "  ¡Nos vemos a las 9!  "})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Risas", first.UserName)
	assert.Equal(t, "¡Nos vemos a las 9!", first.Text)

	nowFunc = func() time.Time { return testNow.Add(time.Minute) }
	_, err = env.chat.Send(ctx, pepito, "e1", &SendMessageInput{Text: "Llevo globos"})
	require.NoError(t, err)

	all, err := env.chat.Messages(ctx, pepito, "e1", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pepito López", all[1].UserName)

	newer, err := env.chat.Messages(ctx, drRisas, "e1", first.Timestamp)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "Llevo globos", newer[0].Text)

	_, err = env.chat.Send(ctx, pepito, "e1", &SendMessageInput{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = env.chat.Messages(ctx, carlaFoto, "e3", time.Time{})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestChatService_MassMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	msg, err := env.chat.SendMass(ctx, anaAdmin, &MassMessageInput{
		Subject:     "Nueva capacitación",
		Body:        "Taller de globoflexia el sábado.",
		TargetRoles: []string{"dr_payaso", "fotografo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", msg.SentBy)

	tests := []struct {
		name   string
		viewer Viewer
		want   int
	}{
		{"targeted role", drRisas, 1},
		{"other targeted role", carlaFoto, 1},
		{"not targeted", pepito, 0},
		{"admin sees all", anaAdmin, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbox, err := env.chat.Inbox(ctx, tt.viewer)
			require.NoError(t, err)
			assert.Len(t, inbox, tt.want)
		})
	}

	_, err = env.chat.SendMass(ctx, anaAdmin, &MassMessageInput{Subject: "x", Body: "y", TargetRoles: []string{"nadie"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
