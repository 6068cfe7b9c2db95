package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/core/services"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"event missing", domain.ErrEventNotFound, fiber.StatusNotFound},
		{"wrapped user missing", fmt.Errorf("load: %w", domain.ErrUserNotFound), fiber.StatusNotFound},
		{"full", services.ErrEventFull, fiber.StatusConflict},
		{"transition", services.ErrInvalidTransition, fiber.StatusConflict},
		{"duplicate email", services.ErrEmailAlreadyExists, fiber.StatusConflict},
		{"not a recruit", services.ErrNotRecruit, fiber.StatusForbidden},
		{"bad credentials", services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"thresholds", services.ErrNotEligible, fiber.StatusBadRequest},
		{"validation", domain.NewValidationError(domain.ErrInvalidInput), fiber.StatusBadRequest},
		{"refresh", fmt.Errorf("%w: payments: boom", services.ErrRefreshFailed), fiber.StatusServiceUnavailable},
		{"unknown", errors.New("disk on fire"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := errorStatus(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
