package db

import (
	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

type AdminGrantRepository struct {
	database *gorm.DB
}

func NewAdminGrantRepository(database *gorm.DB) *AdminGrantRepository {
	return &AdminGrantRepository{database: database}
}

func (repo *AdminGrantRepository) Create(grant *models.AdminGrant) error {
	return repo.database.Create(grant).Error
}

func (repo *AdminGrantRepository) ListForUser(userID uint) ([]models.AdminGrant, error) {
	grants := make([]models.AdminGrant, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("id ASC").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}
