package engine

import (
	"sort"
	"time"

	"payaso-portal/internal/core/domain"
)

// History splits a viewer's registered events around a single instant
type History struct {
	Upcoming []domain.Event `json:"upcoming"`
	Past     []domain.Event `json:"past"`
}

// PartitionHistory returns registered events split into upcoming (date >= now,
// ascending) and past (date < now, most recent first)
func PartitionHistory(events []domain.Event, now time.Time) History {
	h := History{
		Upcoming: []domain.Event{},
		Past:     []domain.Event{},
	}
	for _, e := range events {
		if !e.Registered {
			continue
		}
		if e.Date.Before(now) {
			h.Past = append(h.Past, e)
		} else {
			h.Upcoming = append(h.Upcoming, e)
		}
	}

	sort.SliceStable(h.Upcoming, func(i, j int) bool {
		return h.Upcoming[i].Date.Before(h.Upcoming[j].Date)
	})
	sort.SliceStable(h.Past, func(i, j int) bool {
		return h.Past[i].Date.After(h.Past[j].Date)
	})
	return h
}

// NextMission returns the first upcoming registered event, if any
func NextMission(events []domain.Event, now time.Time) *domain.Event {
	h := PartitionHistory(events, now)
	if len(h.Upcoming) == 0 {
		return nil
	}
	next := h.Upcoming[0]
	return &next
}
