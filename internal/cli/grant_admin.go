package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/teboho/graft/internal/db"
	"github.com/teboho/graft/internal/models"
	"github.com/teboho/graft/internal/services"
	"gorm.io/gorm"
)

// RunGrantAdminCommand promotes one user to admin and records an audit row.
// This is the only admin provisioning path; there is deliberately no HTTP
// endpoint for it.
func RunGrantAdminCommand(dbPath string, email string, operator string) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errors.New("a valid email address is required")
	}
	if operator == "" {
		return errors.New("operator name is required for the audit trail")
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("lower(trim(email)) = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	if user.IsAdmin {
		fmt.Printf("%s is already an admin\n", user.Username)
		grants, err := db.NewAdminGrantRepository(database).ListForUser(user.ID)
		if err == nil && len(grants) > 0 {
			last := grants[len(grants)-1]
			fmt.Printf("last granted by %s at %s\n", last.GrantedBy, last.CreatedAt.Format(time.RFC3339))
		}
		return nil
	}

	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("is_admin", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdminGrant{
			UserID:    user.ID,
			Email:     user.Email,
			GrantedBy: operator,
			CreatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}

	fmt.Printf("Granted admin to %s (%s), recorded by %s\n", user.Username, user.Email, operator)
	return nil
}
