package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type CheckIn struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;uniqueIndex:uidx_user_checkin_date"`
	CheckinDate time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_checkin_date"`
	Status      string    `gorm:"not null;default:pending"`
	ProofKey    string    `gorm:"not null"`
	Content     string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
