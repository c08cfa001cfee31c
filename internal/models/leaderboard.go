package models

import "time"

// LeaderboardSnapshot is a disposable read cache. Ranking is always computed
// from users; stale or missing snapshot rows are never an error.
type LeaderboardSnapshot struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;uniqueIndex"`
	TotalPoints  int  `gorm:"not null;default:0"`
	Streak       int  `gorm:"not null;default:0"`
	RankPosition int  `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}
