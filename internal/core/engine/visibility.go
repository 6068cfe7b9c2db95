package engine

import (
	"strings"

	"payaso-portal/internal/core/domain"
)

// Category is the list tab a viewer picked
type Category string

const (
	CategoryAll      Category = "all"
	CategoryTraining Category = "training"
	CategoryVisit    Category = "visit"
)

// ParseCategory maps a query value to a Category, defaulting to all
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryTraining:
		return CategoryTraining
	case CategoryVisit:
		return CategoryVisit
	default:
		return CategoryAll
	}
}

// Matches reports whether an event belongs to the category
func (c Category) Matches(e *domain.Event) bool {
	switch c {
	case CategoryTraining:
		return e.Type == domain.EventTraining
	case CategoryVisit:
		return e.Type == domain.EventVisit
	default:
		return true
	}
}

// FilterEvents keeps events visible to role, then applies the category.
// The input slice is not modified.
func FilterEvents(events []domain.Event, role domain.Role, category Category) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for i := range events {
		e := &events[i]
		if !Policy.Visible(e, role) {
			continue
		}
		if !category.Matches(e) {
			continue
		}
		out = append(out, *e)
	}
	return out
}
