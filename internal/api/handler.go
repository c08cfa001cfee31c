package api

import (
	"time"

	"github.com/teboho/graft/internal/db"
	"github.com/teboho/graft/internal/services"
	"github.com/teboho/graft/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	authCookieName = "graft_session"
	authTokenTTL   = 7 * 24 * time.Hour
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	logger       *zap.Logger
	cookieSecure bool

	auth        *services.AuthService
	checkins    *services.CheckInService
	settlement  *services.SettlementService
	leaderboard *services.LeaderboardService
	proofs      *storage.ProofStore

	loginLimiter *attemptLimiter

	// now is swappable so lifecycle tests can pin the clock.
	now func() time.Time
}

func NewHandler(database *gorm.DB, secret string, proofs *storage.ProofStore, location *time.Location, logger *zap.Logger, cookieSecure bool) *Handler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	repos := db.NewRepositories(database)
	return &Handler{
		secretKey:    []byte(secret),
		location:     location,
		logger:       logger,
		cookieSecure: cookieSecure,
		auth:         services.NewAuthService(repos.Users),
		checkins:     services.NewCheckInService(repos.CheckIns, proofs, location),
		settlement:   services.NewSettlementService(repos.Users, location),
		leaderboard:  services.NewLeaderboardService(repos.Users, repos.CheckIns, repos.Leaderboard),
		proofs:       proofs,
		loginLimiter: newAttemptLimiter(),
		now:          time.Now,
	}
}
