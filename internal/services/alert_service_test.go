package services

import (
	"testing"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

type stubAlertStore struct {
	alerts    map[int64]*models.Alert
	gotFilter AlertFilter
	updated   *models.Alert
}

func (s *stubAlertStore) ListAlerts(f AlertFilter) ([]*models.Alert, error) {
	s.gotFilter = f
	return nil, nil
}

func (s *stubAlertStore) ListAlertsByUser(userID int64) ([]*models.Alert, error) { return nil, nil }

func (s *stubAlertStore) GetAlert(id int64) (*models.Alert, error) {
	if a := s.alerts[id]; a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *stubAlertStore) UpdateAlert(a *models.Alert) error {
	s.updated = a
	return nil
}

func TestListStatusFilter(t *testing.T) {
	store := &stubAlertStore{}
	svc := NewAlertService(store)

	if _, err := svc.List(models.TierHigh, "pending"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotFilter.Severity != models.TierHigh {
		t.Fatalf("severity filter not forwarded: %+v", store.gotFilter)
	}
	if store.gotFilter.Resolved == nil || *store.gotFilter.Resolved {
		t.Fatalf("pending must filter resolved=false: %+v", store.gotFilter)
	}

	if _, err := svc.List("", "resolved"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotFilter.Resolved == nil || !*store.gotFilter.Resolved {
		t.Fatalf("resolved must filter resolved=true: %+v", store.gotFilter)
	}

	if _, err := svc.List("", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotFilter.Resolved != nil {
		t.Fatal("empty status must not filter on resolution")
	}

	_, err := svc.List("", "bogus")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	store := &stubAlertStore{alerts: map[int64]*models.Alert{
		3: {ID: 3, UserID: 1, Severity: models.TierHigh},
	}}
	svc := NewAlertService(store)
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	alert, err := svc.Resolve(3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alert.IsResolved || alert.ResolvedAt == nil || !alert.ResolvedAt.Equal(fixed) {
		t.Fatalf("resolution not stamped: %+v", alert)
	}
	if store.updated == nil {
		t.Fatal("update not persisted")
	}

	store.alerts[3] = alert
	alert, err = svc.Resolve(3, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.IsResolved || alert.ResolvedAt != nil {
		t.Fatalf("reopening must clear the timestamp: %+v", alert)
	}
}

func TestResolveUnknownAlert(t *testing.T) {
	svc := NewAlertService(&stubAlertStore{alerts: map[int64]*models.Alert{}})
	_, err := svc.Resolve(99, true)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
