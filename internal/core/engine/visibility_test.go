package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payaso-portal/internal/core/domain"
)

func TestFilterEvents(t *testing.T) {
	events := []domain.Event{
		{ID: "visit-open", Type: domain.EventVisit, Capacity: domain.RoleCapacity{Volunteer: 2}},
		{ID: "visit-closed", Type: domain.EventVisit},
		{ID: "training", Type: domain.EventTraining, TotalCapacity: 50},
	}

	ids := func(es []domain.Event) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		role     domain.Role
		category Category
		want     []string
	}{
		{"admin sees everything", domain.RoleAdmin, CategoryAll, []string{"visit-open", "visit-closed", "training"}},
		{"admin visits only", domain.RoleAdmin, CategoryVisit, []string{"visit-open", "visit-closed"}},
		{"volunteer skips closed visit", domain.RoleVolunteer, CategoryAll, []string{"visit-open", "training"}},
		{"volunteer visits tab", domain.RoleVolunteer, CategoryVisit, []string{"visit-open"}},
		{"recruit trainings tab", domain.RoleRecruit, CategoryTraining, []string{"training"}},
		{"recruit all", domain.RoleRecruit, CategoryAll, []string{"training"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterEvents(events, tt.role, tt.category)))
		})
	}
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryVisit, ParseCategory(" Visit "))
	assert.Equal(t, CategoryTraining, ParseCategory("training"))
	assert.Equal(t, CategoryAll, ParseCategory(""))
	assert.Equal(t, CategoryAll, ParseCategory("bogus"))
}
