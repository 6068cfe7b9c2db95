package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payaso-portal/internal/adapters/http/middleware"
	"payaso-portal/internal/adapters/persistence/memory"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/domain"
	"payaso-portal/internal/pkg/jwt"
	"payaso-portal/internal/pkg/password"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	app *fiber.App
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	password.Cost = bcrypt.MinCost

	store := memory.NewStore().Repositories()
	require.NoError(t, config.NewSeeder(store).Run(context.Background()))

	cfg := &config.Config{
		AppMode:    "dev",
		DataSource: config.DataSourceMock,
		JWT:        config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Cookie:     config.CookieConfig{SameSite: "lax"},
		Treasury:   config.TreasuryConfig{MonthlyFee: 5000},
		Cron:       config.CronConfig{DuesReminder: "30 8 1 * *"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, NewServices(store, cfg), cfg)

	return &testServer{app: app, cfg: cfg}
}

func (s *testServer) token(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(userID, userID+"@payaso.org", string(role), s.cfg.JWT.Secret, 60)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, fiber.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRoutes_Login(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{"email", map[string]string{"identifier": "dr.risas@payaso.org", "password": config.DemoPassword}, fiber.StatusOK},
		{"cedula", map[string]string{"identifier": "3-3333-3333", "password": config.DemoPassword}, fiber.StatusOK},
		{"wrong password", map[string]string{"identifier": "dr.risas@payaso.org", "password": "nope-nope"}, fiber.StatusUnauthorized},
		{"missing fields", map[string]string{}, fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := s.do(t, fiber.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

			if tt.wantCode == fiber.StatusOK {
				var data struct {
					AccessToken string      `json:"access_token"`
					User        domain.User `json:"user"`
				}
				require.NoError(t, json.Unmarshal(env.Data, &data))
				assert.NotEmpty(t, data.AccessToken)
				assert.NotEmpty(t, resp.Cookies())
			}
		})
	}
}

func TestAuthRoutes_TokenRequired(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(t, fiber.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = s.do(t, fiber.MethodGet, "/api/v1/portal", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, env = s.do(t, fiber.MethodGet, "/api/v1/auth/me", s.token(t, "u1", domain.RoleDrPayaso), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestAuthRoutes_SwitchRole(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u2", domain.RoleAdmin)

	resp, _ := s.do(t, fiber.MethodPost, "/api/v1/auth/switch-role", token, map[string]string{"role": "junta_directiva"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/auth/switch-role", token, map[string]string{"role": "recluta"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)

	recruit := s.token(t, "u3", domain.RoleRecruit)
	admin := s.token(t, "u2", domain.RoleAdmin)
	board := s.token(t, "u2", domain.RoleBoard)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{"recruit lists users", fiber.MethodGet, "/api/v1/users", recruit, fiber.StatusForbidden},
		{"admin lists users", fiber.MethodGet, "/api/v1/users", admin, fiber.StatusOK},
		{"recruit treasury", fiber.MethodGet, "/api/v1/treasury", recruit, fiber.StatusForbidden},
		{"admin treasury", fiber.MethodGet, "/api/v1/treasury", admin, fiber.StatusOK},
		{"board lists all payments", fiber.MethodGet, "/api/v1/payments", board, fiber.StatusForbidden},
		{"admin lists all payments", fiber.MethodGet, "/api/v1/payments", admin, fiber.StatusOK},
		{"recruit attendees", fiber.MethodGet, "/api/v1/events/e1/attendees", recruit, fiber.StatusForbidden},
		{"board attendees", fiber.MethodGet, "/api/v1/events/e1/attendees", board, fiber.StatusOK},
		{"recruit admin dashboard", fiber.MethodGet, "/api/v1/dashboard/admin", recruit, fiber.StatusForbidden},
		{"recruit own dashboard", fiber.MethodGet, "/api/v1/dashboard", recruit, fiber.StatusOK},
		{"recruit graduation requests", fiber.MethodGet, "/api/v1/graduation/requests", recruit, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := s.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestEventRoutes_RegistrationFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u1", domain.RoleDrPayaso)

	resp, env := s.do(t, fiber.MethodPost, "/api/v1/events/e2/registration", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	var data struct {
		Event domain.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Event.Registered)
	assert.Equal(t, domain.StatusRegistered, data.Event.ViewerStatus)

	resp, _ = s.do(t, fiber.MethodDelete, "/api/v1/events/e2/registration", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// attendance already recorded on e1
	resp, _ = s.do(t, fiber.MethodDelete, "/api/v1/events/e1/registration", token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/events/missing/registration", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEventRoutes_Toggle(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u1", domain.RoleDrPayaso)

	resp, env := s.do(t, fiber.MethodPost, "/api/v1/events/e2/toggle", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)

	var result struct {
		Action string `json:"action"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, string(domain.StatusRegistered), result.Status)

	resp, env = s.do(t, fiber.MethodPost, "/api/v1/events/e2/toggle", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, string(domain.StatusUnregistered), result.Status)
}

func TestEventRoutes_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "u2", domain.RoleAdmin)

	resp, env := s.do(t, fiber.MethodPost, "/api/v1/events", admin, map[string]interface{}{
		"type": "fiesta",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, env.Details)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/events", admin, map[string]interface{}{
		"type":        "training",
		"title":       "Clown básico",
		"date":        "2030-01-10T18:00:00Z",
		"location_id": "l5",
		"capacity":    map[string]int{"recruit": 10},
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestPortalRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "u3", domain.RoleRecruit)

	resp, env := s.do(t, fiber.MethodGet, "/api/v1/portal", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	var first struct {
		Token uint64 `json:"token"`
		Stale bool   `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.False(t, first.Stale)

	resp, env = s.do(t, fiber.MethodPost, "/api/v1/portal/refresh", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var second struct {
		Token uint64 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Greater(t, second.Token, first.Token)
}

func TestPaymentRoutes_ReportAndApprove(t *testing.T) {
	s := newTestServer(t)
	recruit := s.token(t, "u3", domain.RoleRecruit)
	treasurer := s.token(t, "u2", domain.RoleTreasurer)

	resp, env := s.do(t, fiber.MethodPost, "/api/v1/payments", recruit, map[string]interface{}{
		"amount":       5000,
		"month":        "Junio 2024",
		"reference_id": "SINPE-123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, env.Error)

	var created struct {
		Payment domain.Payment `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, domain.PaymentPendingApproval, created.Payment.Status)

	path := "/api/v1/payments/" + created.Payment.ID + "/approve"
	resp, _ = s.do(t, fiber.MethodPut, path, recruit, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPut, path, treasurer, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPut, path, treasurer, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLocationRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "u2", domain.RoleAdmin)
	recruit := s.token(t, "u3", domain.RoleRecruit)

	resp, _ := s.do(t, fiber.MethodGet, "/api/v1/locations", recruit, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, max-age=300", resp.Header.Get(fiber.HeaderCacheControl))

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/locations", recruit, map[string]string{"name": "Escuela Central"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/locations", admin, map[string]string{"name": "Escuela Central", "type": "escuela"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPut, "/api/v1/locations/l1/toggle", admin, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPut, "/api/v1/locations/missing/toggle", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMessageRoutes(t *testing.T) {
	s := newTestServer(t)
	dr := s.token(t, "u1", domain.RoleDrPayaso)
	admin := s.token(t, "u2", domain.RoleAdmin)

	resp, _ := s.do(t, fiber.MethodPost, "/api/v1/events/e1/messages", dr, map[string]string{"text": "¡Nos vemos a las 9!"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := s.do(t, fiber.MethodGet, "/api/v1/events/e1/messages", dr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var chat struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chat))
	assert.Len(t, chat.Messages, 1)

	resp, _ = s.do(t, fiber.MethodGet, "/api/v1/events/e1/messages?since=yesterday", dr, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/messages", dr, map[string]interface{}{"subject": "x", "body": "y", "target_roles": []string{"recluta"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/messages", admin, map[string]interface{}{
		"subject":      "Ensayo general",
		"body":         "Traigan nariz roja",
		"target_roles": []string{"recluta", "dr_payaso"},
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = s.do(t, fiber.MethodGet, "/api/v1/messages", dr, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var inbox struct {
		Messages []domain.SystemMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	assert.Len(t, inbox.Messages, 1)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, "u2", domain.RoleAdmin)
	treasurer := s.token(t, "u2", domain.RoleTreasurer)

	resp, env := s.do(t, fiber.MethodGet, "/api/v1/users?limit=2", treasurer, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var page struct {
		Data []domain.User `json:"data"`
		Meta struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Data, 2)
	assert.EqualValues(t, 5, page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/users", treasurer, map[string]interface{}{})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPost, "/api/v1/users", admin, map[string]interface{}{
		"email":     "dr.risas@payaso.org",
		"cedula":    "9-9999-9999",
		"full_name": "Otro Risas",
		"password":  "secreto1",
		"roles":     []string{"recluta"},
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodPut, "/api/v1/users/u3/roles", admin, map[string]interface{}{
		"roles": []string{"dr_payaso"},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodGet, "/api/v1/users/missing", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
