package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

type stubSubmissionStore struct {
	assessments map[int64]*models.Assessment
	checkins    []*models.EmotionalCheckin
	summary     *models.RiskSummary
	commitErr   error

	committedResp    *models.AssessmentResponse
	committedSummary *models.RiskSummary
	committedAlert   *models.Alert
	commits          int
}

func (s *stubSubmissionStore) GetAssessmentByID(id int64) (*models.Assessment, error) {
	return s.assessments[id], nil
}

func (s *stubSubmissionStore) GetAssessmentByType(scaleType string) (*models.Assessment, error) {
	for _, a := range s.assessments {
		if a.Type == scaleType {
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubSubmissionStore) ListAssessments() ([]*models.Assessment, error) { return nil, nil }

func (s *stubSubmissionStore) ListResponsesByUser(userID int64) ([]*models.AssessmentResponse, error) {
	return nil, nil
}

func (s *stubSubmissionStore) ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error) {
	return s.checkins, nil
}

func (s *stubSubmissionStore) GetRiskSummary(userID int64) (*models.RiskSummary, error) {
	return s.summary, nil
}

func (s *stubSubmissionStore) CommitSubmission(resp *models.AssessmentResponse, summary *models.RiskSummary, alert *models.Alert) error {
	s.commits++
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committedResp = resp
	s.committedSummary = summary
	s.committedAlert = alert
	return nil
}

func pssAssessment() *models.Assessment {
	return &models.Assessment{ID: 1, Title: "Perceived Stress Scale", Type: ScalePSS10}
}

func gadAssessment() *models.Assessment {
	return &models.Assessment{ID: 2, Title: "Generalized Anxiety Disorder Scale", Type: ScaleGAD7}
}

func allAnswers(n, value int) map[string]int {
	out := map[string]int{}
	ids := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10"}
	for _, id := range ids[:n] {
		out[id] = value
	}
	return out
}

func TestProcessSubmissionUnknownAssessment(t *testing.T) {
	store := &stubSubmissionStore{assessments: map[int64]*models.Assessment{}}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))

	_, err := svc.ProcessSubmission(1, 99, map[string]int{"q1": 1})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.commits != 0 {
		t.Fatal("nothing may be written for an unknown assessment")
	}
}

func TestProcessSubmissionPSS(t *testing.T) {
	store := &stubSubmissionStore{
		assessments: map[int64]*models.Assessment{1: pssAssessment()},
	}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	resp, err := svc.ProcessSubmission(7, 1, allAnswers(10, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalScore != 24 {
		t.Fatalf("total score = %v, want 24", resp.TotalScore)
	}
	if resp.RiskLevel != models.TierMedium {
		t.Fatalf("risk level = %s, want Medium", resp.RiskLevel)
	}
	if !resp.CreatedAt.Equal(fixed) {
		t.Fatalf("created at = %v, want %v", resp.CreatedAt, fixed)
	}

	sum := store.committedSummary
	if sum == nil || sum.UserID != 7 {
		t.Fatalf("summary not committed: %+v", sum)
	}
	// No history: neutral features, normalized score 24/40.
	// 0.6*0.3 + 0.5*0.3 + 0 + 0.5*0.2 = 0.43 -> Medium, confidence 0.57
	if sum.CurrentRiskLevel != models.TierMedium {
		t.Fatalf("summary tier = %s, want Medium", sum.CurrentRiskLevel)
	}
	if math.Abs(sum.PredictionConfidence-0.57) > 1e-9 {
		t.Fatalf("summary confidence = %v, want 0.57", sum.PredictionConfidence)
	}
	if !sum.LastUpdated.Equal(fixed) {
		t.Fatalf("summary timestamp = %v, want %v", sum.LastUpdated, fixed)
	}
	if store.committedAlert != nil {
		t.Fatalf("no alert expected, got %+v", store.committedAlert)
	}
}

func TestProcessSubmissionHighScaleRaisesAlert(t *testing.T) {
	store := &stubSubmissionStore{
		assessments: map[int64]*models.Assessment{2: gadAssessment()},
	}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))

	// All-3 GAD-7 answers score 21, a High anxiety reading, while the
	// classifier verdict with neutral features stays below High. The alert
	// must fire on the scale tier alone.
	resp, err := svc.ProcessSubmission(7, 2, map[string]int{
		"q1": 3, "q2": 3, "q3": 3, "q4": 3, "q5": 3, "q6": 3, "q7": 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RiskLevel != models.TierHigh {
		t.Fatalf("risk level = %s, want High", resp.RiskLevel)
	}
	if store.committedSummary.CurrentRiskLevel == models.TierHigh {
		t.Fatalf("classifier verdict should not be High with neutral features")
	}
	alert := store.committedAlert
	if alert == nil {
		t.Fatal("expected an alert")
	}
	if alert.Severity != models.TierHigh || alert.UserID != 7 {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if alert.Message != "High risk detected after Generalized Anxiety Disorder Scale submission." {
		t.Fatalf("unexpected alert message: %q", alert.Message)
	}
}

func TestProcessSubmissionUpdatesExistingSummary(t *testing.T) {
	store := &stubSubmissionStore{
		assessments: map[int64]*models.Assessment{1: pssAssessment()},
		summary: &models.RiskSummary{
			ID: 42, UserID: 7,
			CurrentRiskLevel:     models.TierHigh,
			PredictionConfidence: 0.9,
		},
	}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))

	if _, err := svc.ProcessSubmission(7, 1, allAnswers(10, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := store.committedSummary
	if sum.ID != 42 {
		t.Fatalf("existing summary row must be reused, got id %d", sum.ID)
	}
	if sum.CurrentRiskLevel == models.TierHigh {
		t.Fatal("summary must reflect the fresh verdict")
	}
}

func TestProcessSubmissionCommitFailure(t *testing.T) {
	store := &stubSubmissionStore{
		assessments: map[int64]*models.Assessment{1: pssAssessment()},
		commitErr:   errors.New("disk full"),
	}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))

	if _, err := svc.ProcessSubmission(7, 1, allAnswers(10, 1)); err == nil {
		t.Fatal("expected commit error to propagate")
	}
}

func TestGetAssessmentByType(t *testing.T) {
	store := &stubSubmissionStore{
		assessments: map[int64]*models.Assessment{1: pssAssessment()},
	}
	svc := NewAssessmentService(store, NewRiskClassifier(nil, nil))

	a, err := svc.GetAssessmentByType(ScalePSS10)
	if err != nil || a.ID != 1 {
		t.Fatalf("lookup failed: %v %+v", err, a)
	}
	_, err = svc.GetAssessmentByType("NOPE-1")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
