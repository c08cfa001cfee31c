package services

import (
	"errors"
	"sort"

	"github.com/teboho/graft/internal/models"
)

var ErrLeaderboardLoadFailed = errors.New("leaderboard load failed")

type LeaderboardEntry struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	Rank          int    `json:"rank"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalPoints   int    `json:"total_points"`
	Debt          int    `json:"debt"`
}

type LeaderboardUserReader interface {
	ListAll() ([]models.User, error)
}

type LeaderboardPointsReader interface {
	CountApprovedByUser() (map[uint]int, error)
}

type LeaderboardSnapshotWriter interface {
	ReplaceSnapshots(snapshots []models.LeaderboardSnapshot) error
}

// RankUsers orders users by current streak descending; ties keep the incoming
// (identity) order. Pure projection, no mutation.
func RankUsers(users []models.User, points map[uint]int) []LeaderboardEntry {
	ordered := make([]models.User, len(users))
	copy(ordered, users)
	sort.SliceStable(ordered, func(left, right int) bool {
		return ordered[left].CurrentStreak > ordered[right].CurrentStreak
	})

	entries := make([]LeaderboardEntry, 0, len(ordered))
	for index, user := range ordered {
		entries = append(entries, LeaderboardEntry{
			UserID:        user.ID,
			Username:      user.Username,
			Rank:          index + 1,
			CurrentStreak: user.CurrentStreak,
			LongestStreak: user.LongestStreak,
			TotalPoints:   points[user.ID],
			Debt:          user.Debt,
		})
	}
	return entries
}

type LeaderboardService struct {
	users     LeaderboardUserReader
	points    LeaderboardPointsReader
	snapshots LeaderboardSnapshotWriter
}

func NewLeaderboardService(users LeaderboardUserReader, points LeaderboardPointsReader, snapshots LeaderboardSnapshotWriter) *LeaderboardService {
	return &LeaderboardService{
		users:     users,
		points:    points,
		snapshots: snapshots,
	}
}

func (service *LeaderboardService) Rank() ([]LeaderboardEntry, error) {
	users, err := service.users.ListAll()
	if err != nil {
		return nil, ErrLeaderboardLoadFailed
	}
	points, err := service.points.CountApprovedByUser()
	if err != nil {
		return nil, ErrLeaderboardLoadFailed
	}
	return RankUsers(users, points), nil
}

// RefreshSnapshots rebuilds the persisted cache from a fresh ranking. The
// cache is best effort; callers may log and ignore the returned error.
func (service *LeaderboardService) RefreshSnapshots() error {
	entries, err := service.Rank()
	if err != nil {
		return err
	}

	snapshots := make([]models.LeaderboardSnapshot, 0, len(entries))
	for _, entry := range entries {
		snapshots = append(snapshots, models.LeaderboardSnapshot{
			UserID:       entry.UserID,
			TotalPoints:  entry.TotalPoints,
			Streak:       entry.CurrentStreak,
			RankPosition: entry.Rank,
		})
	}
	return service.snapshots.ReplaceSnapshots(snapshots)
}
