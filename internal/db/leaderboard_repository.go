package db

import (
	"time"

	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	database *gorm.DB
}

func NewLeaderboardRepository(database *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{database: database}
}

// ReplaceSnapshots rewrites the cache table wholesale. The table is a read
// cache only; callers treat failures as non-fatal.
func (repo *LeaderboardRepository) ReplaceSnapshots(snapshots []models.LeaderboardSnapshot) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LeaderboardSnapshot{}).Error; err != nil {
			return err
		}
		if len(snapshots) == 0 {
			return nil
		}
		now := time.Now()
		for index := range snapshots {
			snapshots[index].UpdatedAt = now
		}
		return tx.Create(&snapshots).Error
	})
}

func (repo *LeaderboardRepository) ListSnapshots() ([]models.LeaderboardSnapshot, error) {
	snapshots := make([]models.LeaderboardSnapshot, 0)
	if err := repo.database.Order("rank_position ASC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
