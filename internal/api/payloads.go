package api

import (
	"time"

	"github.com/teboho/graft/internal/models"
)

type registerInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type forgotPasswordInput struct {
	Email string `json:"email" form:"email"`
}

type userPayload struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsAdmin         bool   `json:"is_admin"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	WeeklyStreak    int    `json:"weekly_streak"`
	Debt            int    `json:"debt"`
	LastCheckinDate string `json:"last_checkin_date,omitempty"`
}

type checkinPayload struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	CheckinDate string `json:"checkin_date"`
	Status      string `json:"status"`
	ProofKey    string `json:"proof_key"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}

func toUserPayload(user models.User) userPayload {
	payload := userPayload{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		IsAdmin:       user.IsAdmin,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		WeeklyStreak:  user.WeeklyStreak,
		Debt:          user.Debt,
	}
	if user.LastCheckinDate != nil {
		payload.LastCheckinDate = user.LastCheckinDate.Format("2006-01-02")
	}
	return payload
}

func toCheckinPayload(checkin models.CheckIn) checkinPayload {
	return checkinPayload{
		ID:          checkin.ID,
		UserID:      checkin.UserID,
		CheckinDate: checkin.CheckinDate.Format("2006-01-02"),
		Status:      checkin.Status,
		ProofKey:    checkin.ProofKey,
		Content:     checkin.Content,
		CreatedAt:   checkin.CreatedAt.Format(time.RFC3339),
	}
}

func toCheckinPayloads(checkins []models.CheckIn) []checkinPayload {
	payloads := make([]checkinPayload, 0, len(checkins))
	for _, checkin := range checkins {
		payloads = append(payloads, toCheckinPayload(checkin))
	}
	return payloads
}
