package services

import (
	"fmt"
	"time"

	"github.com/Ggus23/Integrador-Final/internal/models"
)

// SubmissionStore abstracts the persistence needed by the submission
// pipeline. CommitSubmission must apply all staged rows as one atomic unit:
// on failure, none of them may be observable.
type SubmissionStore interface {
	GetAssessmentByID(id int64) (*models.Assessment, error)
	GetAssessmentByType(scaleType string) (*models.Assessment, error)
	ListAssessments() ([]*models.Assessment, error)
	ListResponsesByUser(userID int64) ([]*models.AssessmentResponse, error)
	ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error)
	GetRiskSummary(userID int64) (*models.RiskSummary, error)
	CommitSubmission(resp *models.AssessmentResponse, summary *models.RiskSummary, alert *models.Alert) error
}

// AssessmentService drives the submission pipeline: score the answers, map
// the clinical tier, aggregate behavioral features, classify, and commit the
// response, the refreshed risk summary and any alert in one transaction.
type AssessmentService struct {
	store      SubmissionStore
	features   *FeatureAggregator
	classifier *RiskClassifier
	now        func() time.Time
}

func NewAssessmentService(store SubmissionStore, classifier *RiskClassifier) *AssessmentService {
	return &AssessmentService{
		store:      store,
		features:   NewFeatureAggregator(store),
		classifier: classifier,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListAssessments returns the assessment catalog.
func (s *AssessmentService) ListAssessments() ([]*models.Assessment, error) {
	return s.store.ListAssessments()
}

// GetAssessmentByType fetches one definition by its scale key (e.g. "PSS-10").
func (s *AssessmentService) GetAssessmentByType(scaleType string) (*models.Assessment, error) {
	a, err := s.store.GetAssessmentByType(scaleType)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	return a, nil
}

// History returns the user's completed submissions.
func (s *AssessmentService) History(userID int64) ([]*models.AssessmentResponse, error) {
	return s.store.ListResponsesByUser(userID)
}

// ProcessSubmission runs the full pipeline for one submission. An unknown
// assessment id returns a not-found error with no writes. Classifier
// degradation never aborts the pipeline; only a storage failure during the
// final commit does, in which case nothing is persisted.
func (s *AssessmentService) ProcessSubmission(userID, assessmentID int64, answers map[string]int) (*models.AssessmentResponse, error) {
	assessment, err := s.store.GetAssessmentByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, NewNotFoundError("assessment not found")
	}

	score := Score(assessment.Type, answers)
	scaleTier := TierFor(assessment.Type, score)

	resp := &models.AssessmentResponse{
		UserID:       userID,
		AssessmentID: assessmentID,
		Answers:      answers,
		TotalScore:   score,
		RiskLevel:    scaleTier,
		CreatedAt:    s.now(),
	}

	feats, err := s.features.Aggregate(userID)
	if err != nil {
		return nil, err
	}

	verdict := s.classifier.Classify(
		normalizedScaleScore(assessment.Type, score),
		feats.MoodAvg,
		feats.BadDayCount,
		feats.PressureAvg,
	)

	summary, err := s.store.GetRiskSummary(userID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = &models.RiskSummary{UserID: userID}
	}
	summary.CurrentRiskLevel = verdict.Tier
	summary.PredictionConfidence = verdict.Confidence
	summary.LastUpdated = s.now()

	var alert *models.Alert
	if scaleTier == models.TierHigh || verdict.Tier == models.TierHigh {
		alert = &models.Alert{
			UserID:    userID,
			Severity:  models.TierHigh,
			Message:   fmt.Sprintf("High risk detected after %s submission.", assessment.Title),
			CreatedAt: s.now(),
		}
	}

	if err := s.store.CommitSubmission(resp, summary, alert); err != nil {
		return nil, err
	}
	return resp, nil
}

// normalizedScaleScore maps a raw total into the classifier's [0,1] input.
// Only the stress scale is classifier-calibrated today; other scales use the
// neutral midpoint so they neither inflate nor mask the behavioral signals.
func normalizedScaleScore(scaleType string, score float64) float64 {
	if scaleType == ScalePSS10 {
		return score / pssScoreMax
	}
	return 0.5
}
