package services

import (
	"errors"
	"time"

	"github.com/teboho/graft/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials deliberately covers both unknown-user and
	// wrong-password so login failures cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAuthStoreFailed    = errors.New("auth store operation failed")
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindByUsername(username string) (models.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	Create(user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with all accrual counters at zero. The unique
// indexes on username and email back up the optimistic existence checks.
func (service *AuthService) Register(input RegistrationInput) (models.User, error) {
	usernameTaken, err := service.users.ExistsByUsername(input.Username)
	if err != nil {
		return models.User{}, ErrAuthStoreFailed
	}
	if usernameTaken {
		return models.User{}, ErrUsernameTaken
	}

	emailTaken, err := service.users.ExistsByNormalizedEmail(input.Email)
	if err != nil {
		return models.User{}, ErrAuthStoreFailed
	}
	if emailTaken {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, ErrAuthStoreFailed
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now(),
	}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, ErrAuthStoreFailed
	}
	return user, nil
}

func (service *AuthService) Authenticate(username string, password string) (models.User, error) {
	user, err := service.users.FindByUsername(username)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// EmailIsRegistered backs the forgot-password stub. The answer is never
// surfaced to callers to avoid account enumeration; it exists for logging.
func (service *AuthService) EmailIsRegistered(email string) (bool, error) {
	normalized := NormalizeAuthEmail(email)
	if normalized == "" {
		return false, nil
	}
	return service.users.ExistsByNormalizedEmail(normalized)
}
