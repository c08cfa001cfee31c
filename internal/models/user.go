package models

import "time"

type User struct {
	ID              uint       `gorm:"primaryKey"`
	Username        string     `gorm:"uniqueIndex;not null"`
	Email           string     `gorm:"uniqueIndex;not null"`
	PasswordHash    string     `gorm:"not null"`
	IsAdmin         bool       `gorm:"not null;default:false"`
	CurrentStreak   int        `gorm:"not null;default:0"`
	LongestStreak   int        `gorm:"not null;default:0"`
	WeeklyStreak    int        `gorm:"not null;default:0"`
	Debt            int        `gorm:"not null;default:0"`
	LastCheckinDate *time.Time `gorm:"type:date"`
	LastPenaltyWeek string     `gorm:"not null;default:''"`
	CreatedAt       time.Time  `gorm:"not null"`
}
