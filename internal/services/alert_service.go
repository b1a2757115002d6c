package services

import (
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

// AlertFilter narrows staff alert listings. Zero values mean "no filter".
type AlertFilter struct {
	Severity models.Tier
	Resolved *bool
}

// AlertStore abstracts persistence for the alert review workflow.
type AlertStore interface {
	ListAlerts(f AlertFilter) ([]*models.Alert, error)
	ListAlertsByUser(userID int64) ([]*models.Alert, error)
	GetAlert(id int64) (*models.Alert, error)
	UpdateAlert(a *models.Alert) error
}

// AlertService serves the staff review workflow. The engine only creates
// alerts; resolution lives here.
type AlertService struct {
	store AlertStore
	now   func() time.Time
}

func NewAlertService(store AlertStore) *AlertService {
	return &AlertService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns alerts matching the filter. status is "pending", "resolved"
// or empty for all.
func (s *AlertService) List(severity models.Tier, status string) ([]*models.Alert, error) {
	f := AlertFilter{Severity: severity}
	switch status {
	case "pending":
		resolved := false
		f.Resolved = &resolved
	case "resolved":
		resolved := true
		f.Resolved = &resolved
	case "":
	default:
		return nil, NewInvalidError("status must be pending or resolved")
	}
	return s.store.ListAlerts(f)
}

// ListMine returns the alerts raised for one user.
func (s *AlertService) ListMine(userID int64) ([]*models.Alert, error) {
	return s.store.ListAlertsByUser(userID)
}

// Resolve updates an alert's resolution flag, stamping or clearing the
// resolution time accordingly.
func (s *AlertService) Resolve(id int64, resolved bool) (*models.Alert, error) {
	alert, err := s.store.GetAlert(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, NewNotFoundError("alert not found")
	}
	alert.IsResolved = resolved
	if resolved {
		t := s.now()
		alert.ResolvedAt = &t
	} else {
		alert.ResolvedAt = nil
	}
	if err := s.store.UpdateAlert(alert); err != nil {
		return nil, err
	}
	return alert, nil
}
