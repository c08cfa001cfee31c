package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	CheckIns    *CheckInRepository
	Leaderboard *LeaderboardRepository
	AdminGrants *AdminGrantRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		CheckIns:    NewCheckInRepository(database),
		Leaderboard: NewLeaderboardRepository(database),
		AdminGrants: NewAdminGrantRepository(database),
	}
}
