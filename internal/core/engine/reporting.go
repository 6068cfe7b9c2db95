package engine

import (
	"sort"
	"strings"

	"payaso-portal/internal/core/domain"
)

var (
	monthShort   = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
	weekdayShort = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}
)

// RoleSlice is one slice of the role distribution chart
type RoleSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthBucket aggregates one calendar month
type MonthBucket struct {
	Name      string  `json:"name"`
	Visits    int     `json:"visitas"`
	Trainings int     `json:"capacitaciones"`
	Amount    float64 `json:"monto"`
}

// DayBucket counts visits on one weekday
type DayBucket struct {
	Name   string `json:"name"`
	Visits int    `json:"visitas"`
}

// LocationCount counts visits to one location
type LocationCount struct {
	Name   string `json:"name"`
	Visits int    `json:"visitas"`
}

// ImpactStats is the admin dashboard rollup
type ImpactStats struct {
	TotalVolunteers  int             `json:"total_volunteers"`
	ActiveVolunteers int             `json:"active_volunteers"`
	TotalVisits      int             `json:"total_visits"`
	TotalTrainings   int             `json:"total_trainings"`
	TotalCollected   float64         `json:"total_collected"`
	RoleDistribution []RoleSlice     `json:"role_distribution"`
	Monthly          []MonthBucket   `json:"monthly"`
	Weekday          []DayBucket     `json:"weekday"`
	TopLocations     []LocationCount `json:"top_locations"`
}

// BuildImpactStats folds users, events and payments into dashboard rollups.
// Empty inputs produce zero-valued buckets.
func BuildImpactStats(users []domain.User, events []domain.Event, payments []domain.Payment, topN int) ImpactStats {
	stats := ImpactStats{
		RoleDistribution: []RoleSlice{
			{Name: "Dr. Payaso"},
			{Name: "Reclutas"},
			{Name: "Fotógrafos"},
			{Name: "Staff"},
		},
		Monthly:      make([]MonthBucket, 12),
		Weekday:      make([]DayBucket, 7),
		TopLocations: []LocationCount{},
	}
	for i, name := range monthShort {
		stats.Monthly[i].Name = name
	}
	for i, name := range weekdayShort {
		stats.Weekday[i].Name = name
	}

	// Users
	stats.TotalVolunteers = len(users)
	for i := range users {
		u := &users[i]
		if u.IsActive() {
			stats.ActiveVolunteers++
		}
		switch {
		case u.Role == domain.RoleDrPayaso:
			stats.RoleDistribution[0].Value++
		case u.Role == domain.RoleRecruit:
			stats.RoleDistribution[1].Value++
		case u.Role == domain.RolePhotographer:
			stats.RoleDistribution[2].Value++
		case u.Role.IsStaff():
			stats.RoleDistribution[3].Value++
		}
	}

	// Events
	locations := make(map[string]int)
	for i := range events {
		e := &events[i]
		month := int(e.Date.Month()) - 1
		if e.Type == domain.EventTraining {
			stats.TotalTrainings++
			stats.Monthly[month].Trainings++
			continue
		}
		stats.TotalVisits++
		stats.Monthly[month].Visits++
		stats.Weekday[int(e.Date.Weekday())].Visits++
		if e.Location != "" {
			locations[e.Location]++
		}
	}

	// Payments, joined to months by the first three letters of the label
	for _, p := range payments {
		if p.Status != domain.PaymentPaid {
			continue
		}
		stats.TotalCollected += p.Amount
		if idx := monthIndex(p.Month); idx >= 0 {
			stats.Monthly[idx].Amount += p.Amount
		}
	}

	for name, n := range locations {
		stats.TopLocations = append(stats.TopLocations, LocationCount{Name: name, Visits: n})
	}
	sort.Slice(stats.TopLocations, func(i, j int) bool {
		a, b := stats.TopLocations[i], stats.TopLocations[j]
		if a.Visits != b.Visits {
			return a.Visits > b.Visits
		}
		return a.Name < b.Name
	})
	if topN >= 0 && len(stats.TopLocations) > topN {
		stats.TopLocations = stats.TopLocations[:topN]
	}

	return stats
}

func monthIndex(label string) int {
	prefix := []rune(strings.ToLower(strings.TrimSpace(label)))
	if len(prefix) < 3 {
		return -1
	}
	key := string(prefix[:3])
	for i, name := range monthShort {
		if strings.ToLower(name) == key {
			return i
		}
	}
	return -1
}
