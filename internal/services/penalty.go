package services

import (
	"errors"
	"time"

	"github.com/teboho/graft/internal/models"
)

const (
	weeklyCheckinTarget = 5
	weeklyPenaltyAmount = 10
)

var ErrSettlementFailed = errors.New("settlement failed")

// ResetWeeklyStreakIfNewWeek clears the weekly counter on Mondays when the
// last approved check-in predates today, so stale counts never leak across a
// week boundary. Must run before ApplyWeeklyPenalty on any read path.
func ResetWeeklyStreakIfNewWeek(user *models.User, today time.Time) bool {
	if today.Weekday() != time.Monday {
		return false
	}
	if user.LastCheckinDate == nil || !user.LastCheckinDate.Before(today) {
		return false
	}
	if user.WeeklyStreak == 0 {
		return false
	}
	user.WeeklyStreak = 0
	return true
}

// ApplyWeeklyPenalty charges the once-per-week debt when now is Friday at or
// after 22:00 and the user logged fewer than five weekday approvals this week.
// The week token guard makes repeat invocations within the week no-ops.
func ApplyWeeklyPenalty(user *models.User, now time.Time) bool {
	if now.Weekday() != time.Friday || now.Hour() < submissionCloseHour {
		return false
	}

	week := WeekIdentifier(now)
	if user.LastPenaltyWeek == week {
		return false
	}
	if user.WeeklyStreak >= weeklyCheckinTarget {
		return false
	}

	user.Debt += weeklyPenaltyAmount
	user.LastPenaltyWeek = week
	return true
}

type SettlementUserRepository interface {
	MutateWithinTx(userID uint, mutate func(user *models.User) error) error
}

// SettlementService applies the lazy time-based side effects (weekly reset,
// weekly penalty) for one user. Idempotent within a week; safe to invoke
// before any authenticated read.
type SettlementService struct {
	users    SettlementUserRepository
	location *time.Location
}

func NewSettlementService(users SettlementUserRepository, location *time.Location) *SettlementService {
	if location == nil {
		location = time.UTC
	}
	return &SettlementService{users: users, location: location}
}

// Settle runs both side effects inside one user-scoped transaction and
// returns the settled user plus whether a penalty was charged.
func (service *SettlementService) Settle(userID uint, now time.Time) (models.User, bool, error) {
	localNow := now.In(service.location)
	today := DateAtLocation(now, service.location)

	charged := false
	var settled models.User
	err := service.users.MutateWithinTx(userID, func(user *models.User) error {
		ResetWeeklyStreakIfNewWeek(user, today)
		charged = ApplyWeeklyPenalty(user, localNow)
		settled = *user
		return nil
	})
	if err != nil {
		return models.User{}, false, ErrSettlementFailed
	}
	return settled, charged, nil
}
