package db

import (
	"strings"
	"time"

	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

type CheckInRepository struct {
	database *gorm.DB
}

func NewCheckInRepository(database *gorm.DB) *CheckInRepository {
	return &CheckInRepository{database: database}
}

func (repo *CheckInRepository) ExistsForUserOnDate(userID uint, dayStart time.Time, dayEnd time.Time) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.CheckIn{}).
		Where("user_id = ? AND checkin_date >= ? AND checkin_date < ?", userID, dayStart, dayEnd).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// Create relies on the (user_id, checkin_date) unique index as the
// authoritative duplicate guard; violations surface as gorm.ErrDuplicatedKey.
func (repo *CheckInRepository) Create(checkin *models.CheckIn) error {
	if err := repo.database.Create(checkin).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (repo *CheckInRepository) ListForUser(userID uint) ([]models.CheckIn, error) {
	checkins := make([]models.CheckIn, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("checkin_date DESC, id DESC").
		Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

func (repo *CheckInRepository) ListPending() ([]models.CheckIn, error) {
	checkins := make([]models.CheckIn, 0)
	if err := repo.database.
		Where("status = ?", models.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

func (repo *CheckInRepository) FindProofKey(proofKey string) (models.CheckIn, error) {
	var checkin models.CheckIn
	if err := repo.database.Where("proof_key = ?", proofKey).First(&checkin).Error; err != nil {
		return models.CheckIn{}, err
	}
	return checkin, nil
}

// DisposeWithinTx loads a check-in and its owning user inside one transaction,
// hands both to mutate and persists them together. Streak accrual reads then
// writes the user row, so same-user dispositions must not interleave.
func (repo *CheckInRepository) DisposeWithinTx(checkinID uint, mutate func(checkin *models.CheckIn, user *models.User) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var checkin models.CheckIn
		if err := tx.First(&checkin, checkinID).Error; err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, checkin.UserID).Error; err != nil {
			return err
		}
		if err := mutate(&checkin, &user); err != nil {
			return err
		}
		if err := tx.Save(&checkin).Error; err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
}

func (repo *CheckInRepository) CountApprovedByUser() (map[uint]int, error) {
	type approvedCount struct {
		UserID uint  `gorm:"column:user_id"`
		Total  int64 `gorm:"column:total"`
	}

	rows := make([]approvedCount, 0)
	if err := repo.database.Model(&models.CheckIn{}).
		Select("user_id, count(*) AS total").
		Where("status = ?", models.StatusApproved).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = int(row.Total)
	}
	return counts, nil
}

func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return gorm.ErrDuplicatedKey
	}
	return err
}
