package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/teboho/graft/internal/models"
	"gorm.io/gorm"
)

var (
	ErrWindowClosed          = errors.New("check-ins allowed Monday-Friday, 00:00-22:00 only")
	ErrDuplicateSubmission   = errors.New("check-in already submitted for this date")
	ErrCheckInNotFound       = errors.New("check-in not found")
	ErrAlreadyProcessed      = errors.New("check-in already processed")
	ErrForbidden             = errors.New("admin access required")
	ErrOutOfOrderDisposition = errors.New("an approval for a later date already exists")
	ErrCheckInStoreFailed    = errors.New("check-in store operation failed")
	ErrProofStoreFailed      = errors.New("proof store operation failed")
)

type CheckInStore interface {
	FindProofKey(proofKey string) (models.CheckIn, error)
	ExistsForUserOnDate(userID uint, dayStart time.Time, dayEnd time.Time) (bool, error)
	Create(checkin *models.CheckIn) error
	ListForUser(userID uint) ([]models.CheckIn, error)
	ListPending() ([]models.CheckIn, error)
	DisposeWithinTx(checkinID uint, mutate func(checkin *models.CheckIn, user *models.User) error) error
}

type ProofBlobStore interface {
	Save(extension string, content io.Reader) (string, error)
}

type ProofUpload struct {
	Filename string
	Content  io.Reader
}

// CheckInService owns the pending -> approved|rejected lifecycle. Both
// disposition paths require the caller to hold the admin flag; the service
// checks it itself instead of trusting an outer wrapper.
type CheckInService struct {
	checkins CheckInStore
	proofs   ProofBlobStore
	location *time.Location
}

func NewCheckInService(checkins CheckInStore, proofs ProofBlobStore, location *time.Location) *CheckInService {
	if location == nil {
		location = time.UTC
	}
	return &CheckInService{
		checkins: checkins,
		proofs:   proofs,
		location: location,
	}
}

// Submit validates the window and inputs, stores the proof under a fresh blob
// key and creates a pending check-in for today. The unique (user, date) index
// is the authoritative duplicate guard; the existence check only short-circuits
// the common case before a blob is written.
func (service *CheckInService) Submit(user models.User, now time.Time, rawContent string, proof ProofUpload) (models.CheckIn, error) {
	localNow := now.In(service.location)
	if !SubmissionWindowOpen(localNow) {
		return models.CheckIn{}, ErrWindowClosed
	}

	content, err := ValidateCheckInContent(rawContent)
	if err != nil {
		return models.CheckIn{}, err
	}
	if proof.Content == nil {
		return models.CheckIn{}, ErrProofRequired
	}
	extension, err := ValidateProofFilename(proof.Filename)
	if err != nil {
		return models.CheckIn{}, err
	}

	dayStart, dayEnd := DayRange(now, service.location)
	exists, err := service.checkins.ExistsForUserOnDate(user.ID, dayStart, dayEnd)
	if err != nil {
		return models.CheckIn{}, ErrCheckInStoreFailed
	}
	if exists {
		return models.CheckIn{}, ErrDuplicateSubmission
	}

	proofKey, err := service.proofs.Save(extension, proof.Content)
	if err != nil {
		// Keeps the blob store's own sentinel (size limit) visible to callers.
		return models.CheckIn{}, fmt.Errorf("%w: %w", ErrProofStoreFailed, err)
	}

	checkin := models.CheckIn{
		UserID:      user.ID,
		CheckinDate: dayStart,
		Status:      models.StatusPending,
		ProofKey:    proofKey,
		Content:     content,
		CreatedAt:   localNow,
	}
	if err := service.checkins.Create(&checkin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.CheckIn{}, ErrDuplicateSubmission
		}
		return models.CheckIn{}, ErrCheckInStoreFailed
	}
	return checkin, nil
}

// Approve transitions a pending check-in to approved and folds it into the
// owner's streak counters, atomically. Approving a check-in dated on or before
// the owner's last approved date is refused instead of silently corrupting the
// streak; rejections remain order-free.
func (service *CheckInService) Approve(actor models.User, checkinID uint) (models.CheckIn, error) {
	if !actor.IsAdmin {
		return models.CheckIn{}, ErrForbidden
	}

	var disposed models.CheckIn
	err := service.checkins.DisposeWithinTx(checkinID, func(checkin *models.CheckIn, user *models.User) error {
		if checkin.Status != models.StatusPending {
			return ErrAlreadyProcessed
		}

		checkinDay := DateAtLocation(checkin.CheckinDate, service.location)
		if user.LastCheckinDate != nil && !DateAtLocation(*user.LastCheckinDate, service.location).Before(checkinDay) {
			return ErrOutOfOrderDisposition
		}

		RecordApproval(user, checkinDay)
		checkin.Status = models.StatusApproved
		disposed = *checkin
		return nil
	})
	if err != nil {
		return models.CheckIn{}, service.translateDispositionError(err)
	}
	return disposed, nil
}

// Reject transitions a pending check-in to rejected. Streak fields are never
// touched on rejection.
func (service *CheckInService) Reject(actor models.User, checkinID uint) (models.CheckIn, error) {
	if !actor.IsAdmin {
		return models.CheckIn{}, ErrForbidden
	}

	var disposed models.CheckIn
	err := service.checkins.DisposeWithinTx(checkinID, func(checkin *models.CheckIn, user *models.User) error {
		if checkin.Status != models.StatusPending {
			return ErrAlreadyProcessed
		}
		checkin.Status = models.StatusRejected
		disposed = *checkin
		return nil
	})
	if err != nil {
		return models.CheckIn{}, service.translateDispositionError(err)
	}
	return disposed, nil
}

// ListForUser returns the user's own check-ins, newest date first.
func (service *CheckInService) ListForUser(userID uint) ([]models.CheckIn, error) {
	checkins, err := service.checkins.ListForUser(userID)
	if err != nil {
		return nil, ErrCheckInStoreFailed
	}
	return checkins, nil
}

// FindByProofKey resolves the check-in a stored proof belongs to. Proofs with
// no backing row are treated as not found.
func (service *CheckInService) FindByProofKey(proofKey string) (models.CheckIn, error) {
	checkin, err := service.checkins.FindProofKey(proofKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CheckIn{}, ErrCheckInNotFound
		}
		return models.CheckIn{}, ErrCheckInStoreFailed
	}
	return checkin, nil
}

// ListPending returns every pending check-in for admin review.
func (service *CheckInService) ListPending(actor models.User) ([]models.CheckIn, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	checkins, err := service.checkins.ListPending()
	if err != nil {
		return nil, ErrCheckInStoreFailed
	}
	return checkins, nil
}

func (service *CheckInService) translateDispositionError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrCheckInNotFound
	case errors.Is(err, ErrAlreadyProcessed),
		errors.Is(err, ErrOutOfOrderDisposition):
		return err
	default:
		return ErrCheckInStoreFailed
	}
}
