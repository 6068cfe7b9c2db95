package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"payaso-portal/internal/core/domain"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		hours    int
		visits   int
		eligible bool
		hoursPct int
		visitPct int
	}{
		{"exactly at threshold", 20, 5, true, 100, 100},
		{"one hour short", 19, 5, false, 95, 100},
		{"above threshold is capped", 40, 12, true, 100, 100},
		{"nothing yet", 0, 0, false, 0, 0},
		{"visits short", 20, 4, false, 100, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Progress(domain.UserStats{TrainingHours: tt.hours, VisitsCount: tt.visits})
			assert.Equal(t, tt.eligible, p.Eligible)
			assert.Equal(t, tt.hoursPct, p.TrainingPercent)
			assert.Equal(t, tt.visitPct, p.VisitsPercent)
		})
	}
}

func TestStatsFromAttendance(t *testing.T) {
	s := StatsFromAttendance(10, 5)
	assert.Equal(t, 20, s.TrainingHours)
	assert.Equal(t, 5, s.VisitsCount)
	assert.True(t, IsEligible(s))
}

func TestPercent_NegativeAndZeroThreshold(t *testing.T) {
	assert.Equal(t, 0, Percent(-3, 20))
	assert.Equal(t, 0, Percent(5, 0))
}
