// Package pagination reads page/limit/search from the query string and
// builds the meta block of paged listings such as the volunteer directory.
package pagination

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit matches one page of the volunteer table
	DefaultLimit = 25
	// MaxLimit caps exports of the whole directory
	MaxLimit = 200
	// maxSearchLen bounds the LIKE pattern sent to the store
	maxSearchLen = 64
)

// Params represents pagination parameters
type Params struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Offset int    `json:"-"`
	Search string `json:"search,omitempty"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Response represents paginated response
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// GetParams extracts pagination parameters from request.
// Out-of-range values fall back instead of failing the listing.
func GetParams(c *fiber.Ctx) *Params {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := queryInt(c, "limit", DefaultLimit)
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	// "q" is what the SPA search box sends
	search := c.Query("search", c.Query("q"))
	search = strings.Join(strings.Fields(search), " ")
	if r := []rune(search); len(r) > maxSearchLen {
		search = string(r[:maxSearchLen])
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: search,
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	limit := int64(params.Limit)
	totalPages := int((total + limit - 1) / limit)

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// NewResponse creates a new paginated response
func NewResponse(data interface{}, params *Params, total int64) *Response {
	return &Response{
		Data: data,
		Meta: GetMeta(params, total),
	}
}
