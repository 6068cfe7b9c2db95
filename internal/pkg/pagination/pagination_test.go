package pagination

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: DefaultLimit}},
		{"second page", "page=2&limit=10", Params{Page: 2, Limit: 10, Offset: 10}},
		{"garbage falls back", "page=abc&limit=-3", Params{Page: 1, Limit: DefaultLimit}},
		{"limit capped", "limit=5000", Params{Page: 1, Limit: MaxLimit}},
		{"search trimmed", "search=%20%20dr%20%20%20risas%20", Params{Page: 1, Limit: DefaultLimit, Search: "dr risas"}},
		{"q alias", "q=pepito", Params{Page: 1, Limit: DefaultLimit, Search: "pepito"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Params
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = GetParams(c)
				return nil
			})
			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestGetParams_LongSearch(t *testing.T) {
	var got *Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/?search="+strings.Repeat("a", 100), nil))
	require.NoError(t, err)
	assert.Len(t, got.Search, maxSearchLen)
}

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int64
		want   Meta
	}{
		{"empty", Params{Page: 1, Limit: 25}, 0, Meta{Page: 1, Limit: 25}},
		{"exact pages", Params{Page: 1, Limit: 2}, 4, Meta{Page: 1, Limit: 2, Total: 4, TotalPages: 2, HasNext: true}},
		{"partial last page", Params{Page: 3, Limit: 2}, 5, Meta{Page: 3, Limit: 2, Total: 5, TotalPages: 3, HasPrev: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			assert.Equal(t, tt.want, *GetMeta(&params, tt.total))
		})
	}
}
