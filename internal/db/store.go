package db

import (
	"github.com/Ggus23/Integrador-Final/internal/models"
	"github.com/Ggus23/Integrador-Final/internal/services"
)

// Store is the full persistence surface consumed by the services. Lookup
// methods return (nil, nil) for missing rows; CommitSubmission applies all
// staged rows of one submission atomically.
type Store interface {
	InsertAssessment(a *models.Assessment) (*models.Assessment, error)
	GetAssessmentByID(id int64) (*models.Assessment, error)
	GetAssessmentByType(scaleType string) (*models.Assessment, error)
	ListAssessments() ([]*models.Assessment, error)

	ListResponsesByUser(userID int64) ([]*models.AssessmentResponse, error)
	CommitSubmission(resp *models.AssessmentResponse, summary *models.RiskSummary, alert *models.Alert) error

	InsertCheckin(c *models.EmotionalCheckin) (*models.EmotionalCheckin, error)
	ListCheckinsByUser(userID int64, offset, limit int) ([]*models.EmotionalCheckin, error)
	ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error)

	GetRiskSummary(userID int64) (*models.RiskSummary, error)

	InsertAlert(a *models.Alert) (*models.Alert, error)
	ListAlerts(f services.AlertFilter) ([]*models.Alert, error)
	ListAlertsByUser(userID int64) ([]*models.Alert, error)
	GetAlert(id int64) (*models.Alert, error)
	UpdateAlert(a *models.Alert) error

	FindUserByEmail(email string) (*models.User, error)
	AddUser(u *models.User) (*models.User, error)
}

var (
	_ Store                     = (*SQLiteStore)(nil)
	_ Store                     = (*MemoryStore)(nil)
	_ services.SubmissionStore  = (Store)(nil)
	_ services.CheckinStore     = (Store)(nil)
	_ services.AlertStore       = (Store)(nil)
	_ services.RiskSummaryStore = (Store)(nil)
	_ services.AuthStore        = (Store)(nil)
)
