package services

import (
	"time"

	"github.com/teboho/graft/internal/models"
)

// RecordApproval folds one approved check-in into the user's accrual counters.
// The streak continues only when checkinDate is exactly one day after the last
// approved date; any other prior value restarts it at 1. Callers must dispose
// approvals in ascending date order (see CheckInService.Approve).
func RecordApproval(user *models.User, checkinDate time.Time) {
	if user.LastCheckinDate != nil && sameDay(*user.LastCheckinDate, checkinDate.AddDate(0, 0, -1)) {
		user.CurrentStreak++
	} else {
		user.CurrentStreak = 1
	}

	if IsWeekday(checkinDate) {
		user.WeeklyStreak++
	}

	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}

	approvedDate := checkinDate
	user.LastCheckinDate = &approvedDate
}
