package services

import (
	"strings"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

// CheckinStore abstracts persistence for the check-in workflow.
type CheckinStore interface {
	InsertCheckin(c *models.EmotionalCheckin) (*models.EmotionalCheckin, error)
	ListCheckinsByUser(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error)
	InsertAlert(a *models.Alert) (*models.Alert, error)
}

// CheckinInput carries a new check-in. Optional signals stay nil when the
// user skipped them.
type CheckinInput struct {
	MoodScore        int
	EnergyLevel      *int
	SleepHours       *int
	AcademicPressure *int
	Note             string
}

// CheckinService records daily emotional check-ins and raises an alert when
// a single check-in already signals high risk.
type CheckinService struct {
	store CheckinStore
	now   func() time.Time
}

func NewCheckinService(store CheckinStore) *CheckinService {
	return &CheckinService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a check-in, returning it together with the
// quick mood tier.
func (s *CheckinService) Create(userID int64, in CheckinInput) (*models.EmotionalCheckin, models.Tier, error) {
	if in.MoodScore < 1 || in.MoodScore > 5 {
		return nil, "", NewInvalidError("mood_score must be between 1 and 5")
	}
	if in.AcademicPressure != nil && (*in.AcademicPressure < 1 || *in.AcademicPressure > 5) {
		return nil, "", NewInvalidError("academic_pressure must be between 1 and 5")
	}
	if in.SleepHours != nil && (*in.SleepHours < 0 || *in.SleepHours > 24) {
		return nil, "", NewInvalidError("sleep_hours must be between 0 and 24")
	}

	checkin := &models.EmotionalCheckin{
		UserID:           userID,
		MoodScore:        in.MoodScore,
		EnergyLevel:      in.EnergyLevel,
		SleepHours:       in.SleepHours,
		AcademicPressure: in.AcademicPressure,
		Note:             strings.TrimSpace(in.Note),
		CreatedAt:        s.now(),
	}
	stored, err := s.store.InsertCheckin(checkin)
	if err != nil {
		return nil, "", err
	}

	tier := MoodTier(in.MoodScore)
	if tier == models.TierHigh {
		_, err := s.store.InsertAlert(&models.Alert{
			UserID:    userID,
			Severity:  models.TierHigh,
			Message:   "High risk detected during daily check-in.",
			CreatedAt: s.now(),
		})
		if err != nil {
			return nil, "", err
		}
	}
	return stored, tier, nil
}

// History lists the user's check-ins, newest first.
func (s *CheckinService) History(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListCheckinsByUser(userID, offset, limit)
}
