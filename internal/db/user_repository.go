package db

import (
	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByUsername(username string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("username = ?", username).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	if err := repo.database.Create(user).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (repo *UserRepository) ListAll() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// MutateWithinTx loads the user row inside a transaction, applies mutate and
// persists the result. Concurrent settlements and dispositions for the same
// user serialize on this transaction.
func (repo *UserRepository) MutateWithinTx(userID uint, mutate func(user *models.User) error) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if err := mutate(&user); err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
}
