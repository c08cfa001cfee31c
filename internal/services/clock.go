package services

import (
	"fmt"
	"time"
)

// submissionCloseHour is the local hour at which the daily submission window
// closes and, on Fridays, the weekly penalty window opens.
const submissionCloseHour = 22

func IsWeekday(day time.Time) bool {
	weekday := day.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// SubmissionWindowOpen reports whether new check-ins are accepted at now:
// Monday through Friday, 00:00 inclusive to 22:00 exclusive. Dispositions are
// not gated by this window.
func SubmissionWindowOpen(now time.Time) bool {
	return IsWeekday(now) && now.Hour() < submissionCloseHour
}

// WeekIdentifier returns an opaque token for the ISO (year, week) bucket
// containing now. Weeks start on Monday; two timestamps in the same week
// always produce the same token. Used as the penalty de-duplication key.
func WeekIdentifier(now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func sameDay(left time.Time, right time.Time) bool {
	leftYear, leftMonth, leftDay := left.Date()
	rightYear, rightMonth, rightDay := right.Date()
	return leftYear == rightYear && leftMonth == rightMonth && leftDay == rightDay
}
