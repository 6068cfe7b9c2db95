package engine

import "payaso-portal/internal/core/domain"

// Graduation thresholds
const (
	TrainingHoursThreshold = 20
	VisitsThreshold        = 5
	HoursPerTraining       = 2
)

// GraduationProgress is a recruit's progress towards promotion
type GraduationProgress struct {
	TrainingHours   int  `json:"training_hours"`
	VisitsCount     int  `json:"visits_count"`
	TrainingPercent int  `json:"training_percent"`
	VisitsPercent   int  `json:"visits_percent"`
	Eligible        bool `json:"eligible"`
}

// StatsFromAttendance converts attended counts into UserStats
func StatsFromAttendance(attendedTrainings, attendedVisits int) domain.UserStats {
	return domain.UserStats{
		TrainingHours: attendedTrainings * HoursPerTraining,
		VisitsCount:   attendedVisits,
	}
}

// Percent returns min(100, 100*value/threshold), never negative
func Percent(value, threshold int) int {
	if value <= 0 || threshold <= 0 {
		return 0
	}
	p := 100 * value / threshold
	if p > 100 {
		return 100
	}
	return p
}

// IsEligible reports whether both thresholds are met
func IsEligible(stats domain.UserStats) bool {
	return stats.TrainingHours >= TrainingHoursThreshold && stats.VisitsCount >= VisitsThreshold
}

// Progress returns both percentages and the eligibility flag
func Progress(stats domain.UserStats) GraduationProgress {
	return GraduationProgress{
		TrainingHours:   stats.TrainingHours,
		VisitsCount:     stats.VisitsCount,
		TrainingPercent: Percent(stats.TrainingHours, TrainingHoursThreshold),
		VisitsPercent:   Percent(stats.VisitsCount, VisitsThreshold),
		Eligible:        IsEligible(stats),
	}
}
