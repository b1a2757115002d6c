package services

import "github.com/Ggus23/Integrador-Final/internal/models"

// RiskSummaryStore reads the per-user risk summary row.
type RiskSummaryStore interface {
	GetRiskSummary(userID int64) (*models.RiskSummary, error)
}

// RiskService exposes the current risk state of a user.
type RiskService struct {
	store RiskSummaryStore
}

func NewRiskService(store RiskSummaryStore) *RiskService {
	return &RiskService{store: store}
}

// Summary returns the stored risk summary, or the implicit default of
// Low/1.0 for users that were never classified.
func (s *RiskService) Summary(userID int64) (*models.RiskSummary, error) {
	summary, err := s.store.GetRiskSummary(userID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return &models.RiskSummary{
			UserID:               userID,
			CurrentRiskLevel:     models.TierLow,
			PredictionConfidence: 1.0,
		}, nil
	}
	return summary, nil
}
