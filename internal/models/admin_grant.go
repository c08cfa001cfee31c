package models

import "time"

// AdminGrant is the audit trail for admin provisioning. Rows are written by the
// operator CLI only and never deleted.
type AdminGrant struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Email     string    `gorm:"not null"`
	GrantedBy string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
