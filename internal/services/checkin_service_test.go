package services

import (
	"testing"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

type stubCheckinStore struct {
	inserted  []*models.EmotionalCheckin
	alerts    []*models.Alert
	gotOffset int
	gotLimit  int
}

func (s *stubCheckinStore) InsertCheckin(c *models.EmotionalCheckin) (*models.EmotionalCheckin, error) {
	cp := *c
	cp.ID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, &cp)
	return &cp, nil
}

func (s *stubCheckinStore) ListCheckinsByUser(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error) {
	s.gotOffset, s.gotLimit = offset, limit
	return nil, nil
}

func (s *stubCheckinStore) InsertAlert(a *models.Alert) (*models.Alert, error) {
	cp := *a
	s.alerts = append(s.alerts, &cp)
	return &cp, nil
}

func TestCreateCheckinValidation(t *testing.T) {
	store := &stubCheckinStore{}
	svc := NewCheckinService(store)

	bad := []CheckinInput{
		{MoodScore: 0},
		{MoodScore: 6},
		{MoodScore: 3, AcademicPressure: intPtr(0)},
		{MoodScore: 3, AcademicPressure: intPtr(6)},
		{MoodScore: 3, SleepHours: intPtr(-1)},
		{MoodScore: 3, SleepHours: intPtr(25)},
	}
	for i, in := range bad {
		_, _, err := svc.Create(1, in)
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Errorf("case %d: expected invalid error, got %v", i, err)
		}
	}
	if len(store.inserted) != 0 {
		t.Fatal("invalid check-ins must not be stored")
	}
}

func TestCreateCheckinLowMoodAlerts(t *testing.T) {
	store := &stubCheckinStore{}
	svc := NewCheckinService(store)

	stored, tier, err := svc.Create(5, CheckinInput{MoodScore: 1, Note: "  rough day  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != models.TierHigh {
		t.Fatalf("tier = %s, want High", tier)
	}
	if stored.Note != "rough day" {
		t.Fatalf("note not trimmed: %q", stored.Note)
	}
	if len(store.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(store.alerts))
	}
	if store.alerts[0].Message != "High risk detected during daily check-in." {
		t.Fatalf("unexpected alert message: %q", store.alerts[0].Message)
	}
}

func TestCreateCheckinGoodMoodNoAlert(t *testing.T) {
	store := &stubCheckinStore{}
	svc := NewCheckinService(store)

	_, tier, err := svc.Create(5, CheckinInput{MoodScore: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tier != models.TierLow {
		t.Fatalf("tier = %s, want Low", tier)
	}
	if len(store.alerts) != 0 {
		t.Fatalf("no alert expected, got %d", len(store.alerts))
	}
}

func TestHistoryClampsLimit(t *testing.T) {
	store := &stubCheckinStore{}
	svc := NewCheckinService(store)

	if _, err := svc.History(1, -3, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotOffset != 0 || store.gotLimit != 100 {
		t.Fatalf("got offset=%d limit=%d, want 0/100", store.gotOffset, store.gotLimit)
	}

	if _, err := svc.History(1, 2, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotOffset != 2 || store.gotLimit != 100 {
		t.Fatalf("got offset=%d limit=%d, want 2/100", store.gotOffset, store.gotLimit)
	}
}
