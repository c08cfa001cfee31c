package services

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

type stubCheckInStore struct {
	checkins   map[uint]*models.CheckIn
	users      map[uint]*models.User
	created    []models.CheckIn
	existing   bool
	existsErr  error
	createErr  error
	listErr    error
	disposeErr error
}

func newStubCheckInStore() *stubCheckInStore {
	return &stubCheckInStore{
		checkins: make(map[uint]*models.CheckIn),
		users:    make(map[uint]*models.User),
	}
}

func (stub *stubCheckInStore) FindProofKey(proofKey string) (models.CheckIn, error) {
	for _, checkin := range stub.checkins {
		if checkin.ProofKey == proofKey {
			return *checkin, nil
		}
	}
	return models.CheckIn{}, gorm.ErrRecordNotFound
}

func (stub *stubCheckInStore) ExistsForUserOnDate(uint, time.Time, time.Time) (bool, error) {
	if stub.existsErr != nil {
		return false, stub.existsErr
	}
	return stub.existing, nil
}

func (stub *stubCheckInStore) Create(checkin *models.CheckIn) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	checkin.ID = uint(len(stub.created) + 1)
	stub.created = append(stub.created, *checkin)
	stored := *checkin
	stub.checkins[checkin.ID] = &stored
	return nil
}

func (stub *stubCheckInStore) ListForUser(userID uint) ([]models.CheckIn, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.CheckIn, 0)
	for _, checkin := range stub.checkins {
		if checkin.UserID == userID {
			result = append(result, *checkin)
		}
	}
	return result, nil
}

func (stub *stubCheckInStore) ListPending() ([]models.CheckIn, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.CheckIn, 0)
	for _, checkin := range stub.checkins {
		if checkin.Status == models.StatusPending {
			result = append(result, *checkin)
		}
	}
	return result, nil
}

func (stub *stubCheckInStore) DisposeWithinTx(checkinID uint, mutate func(checkin *models.CheckIn, user *models.User) error) error {
	if stub.disposeErr != nil {
		return stub.disposeErr
	}
	checkin, ok := stub.checkins[checkinID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user, ok := stub.users[checkin.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	// Mutations must not stick when mutate fails, mirroring the rollback of
	// the real transaction.
	checkinCopy := *checkin
	userCopy := *user
	if err := mutate(&checkinCopy, &userCopy); err != nil {
		return err
	}
	*checkin = checkinCopy
	*user = userCopy
	return nil
}

type stubProofStore struct {
	saved []string
	key   string
	err   error
}

func (stub *stubProofStore) Save(extension string, content io.Reader) (string, error) {
	if stub.err != nil {
		return "", stub.err
	}
	if _, err := io.Copy(io.Discard, content); err != nil {
		return "", err
	}
	key := stub.key
	if key == "" {
		key = "proof.png"
	}
	stub.saved = append(stub.saved, key)
	return key, nil
}

func proofUpload(name string) ProofUpload {
	return ProofUpload{Filename: name, Content: strings.NewReader("image-bytes")}
}

func mondayMorning() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func TestSubmitCreatesPendingCheckIn(t *testing.T) {
	store := newStubCheckInStore()
	proofs := &stubProofStore{key: "abc123def456.png"}
	service := NewCheckInService(store, proofs, time.UTC)

	checkin, err := service.Submit(models.User{ID: 7}, mondayMorning(), "  trained legs  ", proofUpload("photo.PNG"))
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	if checkin.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %q", checkin.Status)
	}
	if checkin.Content != "trained legs" {
		t.Fatalf("expected trimmed content, got %q", checkin.Content)
	}
	if checkin.ProofKey != "abc123def456.png" {
		t.Fatalf("expected stored proof key, got %q", checkin.ProofKey)
	}
	wantDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !checkin.CheckinDate.Equal(wantDate) {
		t.Fatalf("expected check-in date %s, got %s", wantDate, checkin.CheckinDate)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.created))
	}
}

func TestSubmitOutsideWindowFails(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{name: "saturday", now: time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)},
		{name: "weekday after close", now: time.Date(2026, 3, 3, 22, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubCheckInStore()
			proofs := &stubProofStore{}
			service := NewCheckInService(store, proofs, time.UTC)

			_, err := service.Submit(models.User{ID: 7}, tt.now, "content", proofUpload("photo.png"))
			if !errors.Is(err, ErrWindowClosed) {
				t.Fatalf("expected ErrWindowClosed, got %v", err)
			}
			if len(store.created) != 0 {
				t.Fatal("expected no check-in row outside the window")
			}
			if len(proofs.saved) != 0 {
				t.Fatal("expected no blob write outside the window")
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		proof   ProofUpload
		wantErr error
	}{
		{name: "empty content", content: "   ", proof: proofUpload("photo.png"), wantErr: ErrContentRequired},
		{name: "missing proof reader", content: "content", proof: ProofUpload{Filename: "photo.png"}, wantErr: ErrProofRequired},
		{name: "missing filename", content: "content", proof: proofUpload(""), wantErr: ErrProofRequired},
		{name: "disallowed extension", content: "content", proof: proofUpload("video.gif"), wantErr: ErrProofType},
		{name: "no extension", content: "content", proof: proofUpload("photo"), wantErr: ErrProofType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubCheckInStore()
			service := NewCheckInService(store, &stubProofStore{}, time.UTC)

			_, err := service.Submit(models.User{ID: 7}, mondayMorning(), tt.content, tt.proof)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(store.created) != 0 {
				t.Fatal("expected no insert on validation failure")
			}
		})
	}
}

func TestSubmitDuplicateDetectedByExistenceCheck(t *testing.T) {
	store := newStubCheckInStore()
	store.existing = true
	proofs := &stubProofStore{}
	service := NewCheckInService(store, proofs, time.UTC)

	_, err := service.Submit(models.User{ID: 7}, mondayMorning(), "content", proofUpload("photo.png"))
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
	if len(proofs.saved) != 0 {
		t.Fatal("expected no blob write for a duplicate")
	}
}

func TestSubmitDuplicateRacingPastCheckMapsConstraintViolation(t *testing.T) {
	store := newStubCheckInStore()
	store.createErr = gorm.ErrDuplicatedKey
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	_, err := service.Submit(models.User{ID: 7}, mondayMorning(), "content", proofUpload("photo.png"))
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission from constraint violation, got %v", err)
	}
}

func seedPendingCheckIn(store *stubCheckInStore, checkinID uint, user *models.User, date time.Time) {
	store.users[user.ID] = user
	store.checkins[checkinID] = &models.CheckIn{
		ID:          checkinID,
		UserID:      user.ID,
		CheckinDate: date,
		Status:      models.StatusPending,
		ProofKey:    "proof.png",
		Content:     "content",
	}
}

func TestApproveRecordsStreakAndMarksApproved(t *testing.T) {
	store := newStubCheckInStore()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	owner := models.User{ID: 7, LastCheckinDate: timePtr(monday.AddDate(0, 0, -3))}
	seedPendingCheckIn(store, 1, &owner, monday)
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	disposed, err := service.Approve(models.User{ID: 1, IsAdmin: true}, 1)
	if err != nil {
		t.Fatalf("Approve() unexpected error: %v", err)
	}
	if disposed.Status != models.StatusApproved {
		t.Fatalf("expected approved status, got %q", disposed.Status)
	}
	if owner.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1 after gap, got %d", owner.CurrentStreak)
	}
	if owner.LastCheckinDate == nil || !owner.LastCheckinDate.Equal(monday) {
		t.Fatalf("expected last check-in date %s, got %v", monday, owner.LastCheckinDate)
	}
}

func TestApproveConsecutiveDayIncrementsStreak(t *testing.T) {
	store := newStubCheckInStore()
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	owner := models.User{ID: 7, CurrentStreak: 1, LongestStreak: 1, LastCheckinDate: timePtr(tuesday.AddDate(0, 0, -1))}
	seedPendingCheckIn(store, 1, &owner, tuesday)
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	if _, err := service.Approve(models.User{IsAdmin: true}, 1); err != nil {
		t.Fatalf("Approve() unexpected error: %v", err)
	}
	if owner.CurrentStreak != 2 {
		t.Fatalf("expected streak 2, got %d", owner.CurrentStreak)
	}
	if owner.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", owner.LongestStreak)
	}
}

func TestApproveTwiceIsNoOp(t *testing.T) {
	store := newStubCheckInStore()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	owner := models.User{ID: 7}
	seedPendingCheckIn(store, 1, &owner, monday)
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	if _, err := service.Approve(models.User{IsAdmin: true}, 1); err != nil {
		t.Fatalf("first Approve() unexpected error: %v", err)
	}
	streakAfterFirst := owner.CurrentStreak

	_, err := service.Approve(models.User{IsAdmin: true}, 1)
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
	if owner.CurrentStreak != streakAfterFirst {
		t.Fatalf("expected streak unchanged at %d, got %d", streakAfterFirst, owner.CurrentStreak)
	}
}

func TestApproveOutOfOrderIsRefused(t *testing.T) {
	store := newStubCheckInStore()
	tuesday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	// Wednesday was already approved; disposing Tuesday afterwards would
	// silently rewind last_checkin_date and corrupt the streak.
	owner := models.User{ID: 7, CurrentStreak: 2, LongestStreak: 2, LastCheckinDate: timePtr(tuesday.AddDate(0, 0, 1))}
	seedPendingCheckIn(store, 1, &owner, tuesday)
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	_, err := service.Approve(models.User{IsAdmin: true}, 1)
	if !errors.Is(err, ErrOutOfOrderDisposition) {
		t.Fatalf("expected ErrOutOfOrderDisposition, got %v", err)
	}
	if owner.CurrentStreak != 2 {
		t.Fatalf("expected streak untouched at 2, got %d", owner.CurrentStreak)
	}
	if store.checkins[1].Status != models.StatusPending {
		t.Fatalf("expected check-in left pending, got %q", store.checkins[1].Status)
	}
}

func TestRejectNeverTouchesStreaks(t *testing.T) {
	store := newStubCheckInStore()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	owner := models.User{ID: 7, CurrentStreak: 4, LongestStreak: 6, WeeklyStreak: 2}
	seedPendingCheckIn(store, 1, &owner, monday)
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	disposed, err := service.Reject(models.User{IsAdmin: true}, 1)
	if err != nil {
		t.Fatalf("Reject() unexpected error: %v", err)
	}
	if disposed.Status != models.StatusRejected {
		t.Fatalf("expected rejected status, got %q", disposed.Status)
	}
	if owner.CurrentStreak != 4 || owner.LongestStreak != 6 || owner.WeeklyStreak != 2 {
		t.Fatalf("expected streak fields untouched, got current=%d longest=%d weekly=%d",
			owner.CurrentStreak, owner.LongestStreak, owner.WeeklyStreak)
	}
	if owner.LastCheckinDate != nil {
		t.Fatalf("expected last check-in date untouched, got %v", owner.LastCheckinDate)
	}
}

func TestDispositionRequiresAdmin(t *testing.T) {
	store := newStubCheckInStore()
	owner := models.User{ID: 7}
	seedPendingCheckIn(store, 1, &owner, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	service := NewCheckInService(store, &stubProofStore{}, time.UTC)

	if _, err := service.Approve(models.User{ID: 2}, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from approve, got %v", err)
	}
	if _, err := service.Reject(models.User{ID: 2}, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from reject, got %v", err)
	}
	if _, err := service.ListPending(models.User{ID: 2}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from pending list, got %v", err)
	}
}

func TestDispositionUnknownCheckIn(t *testing.T) {
	service := NewCheckInService(newStubCheckInStore(), &stubProofStore{}, time.UTC)

	if _, err := service.Approve(models.User{IsAdmin: true}, 42); !errors.Is(err, ErrCheckInNotFound) {
		t.Fatalf("expected ErrCheckInNotFound, got %v", err)
	}
	if _, err := service.Reject(models.User{IsAdmin: true}, 42); !errors.Is(err, ErrCheckInNotFound) {
		t.Fatalf("expected ErrCheckInNotFound, got %v", err)
	}
}

func timePtr(value time.Time) *time.Time {
	return &value
}
