package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/jwt"
)

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.Users.UpdateStatus(ctx, "u4", domain.UserInactive))

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
		wantUserID string
	}{
		{"by email", "ana.admin@payaso.org", config.DemoPassword, nil, "u2"},
		{"by email case-insensitive", "  Ana.Admin@Payaso.org ", config.DemoPassword, nil, "u2"},
		{"by cedula", "3-3333-3333", config.DemoPassword, nil, "u3"},
		{"wrong password", "ana.admin@payaso.org", "nope-nope", ErrInvalidCredentials, ""},
		{"unknown user", "nadie@payaso.org", config.DemoPassword, ErrInvalidCredentials, ""},
		{"inactive user", "foto.carla@payaso.org", config.DemoPassword, ErrUserInactive, ""},
		{"blank identifier", "   ", config.DemoPassword, domain.ErrInvalidInput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.auth.Login(ctx, &LoginInput{Identifier: tt.identifier, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, resp.User.ID)

			claims, err := jwt.ValidateAccessToken(resp.AccessToken, env.cfg.JWT.Secret)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUserID, claims.UserID)
			assert.Equal(t, string(resp.User.Role), claims.Role)
		})
	}
}

func TestAuthService_SwitchRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.SwitchRole(ctx, "u2", &SwitchRoleInput{Role: "junta_directiva"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBoard, resp.User.Role)

	claims, err := jwt.ValidateAccessToken(resp.AccessToken, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "junta_directiva", claims.Role)

	stored, err := env.store.Users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBoard, stored.Role)

	_, err = env.auth.SwitchRole(ctx, "u2", &SwitchRoleInput{Role: "dr_payaso"})
	assert.ErrorIs(t, err, ErrRoleNotAvailable)

	_, err = env.auth.SwitchRole(ctx, "u2", &SwitchRoleInput{Role: "superhero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   ChangePasswordInput
		wantErr error
	}{
		{"too short", ChangePasswordInput{config.DemoPassword, "abc", "abc"}, ErrPasswordTooShort},
		{"mismatch", ChangePasswordInput{config.DemoPassword, "nuevaClave1", "nuevaClave2"}, ErrPasswordMismatch},
		{"wrong current", ChangePasswordInput{"incorrecta", "nuevaClave1", "nuevaClave1"}, ErrInvalidCredentials},
		{"ok", ChangePasswordInput{config.DemoPassword, "nuevaClave1", "nuevaClave1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			err := env.auth.ChangePassword(ctx, "u1", &input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := env.auth.Login(ctx, &LoginInput{Identifier: "dr.risas@payaso.org", Password: "nuevaClave1"})
	assert.NoError(t, err)
	_, err = env.auth.Login(ctx, &LoginInput{Identifier: "dr.risas@payaso.org", Password: config.DemoPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
