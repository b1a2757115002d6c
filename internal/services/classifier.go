package services

import (
	"fmt"

	"github.com/Ggus23/Integrador-Final/internal/logger"
	"github.com/Ggus23/Integrador-Final/internal/ml"
	"github.com/Ggus23/Integrador-Final/internal/models"
)

// ClassifierMode tags which branch produced a classification.
type ClassifierMode string

const (
	ModeModel     ClassifierMode = "model"
	ModeHeuristic ClassifierMode = "heuristic"
)

// Classification is the tagged classifier verdict.
type Classification struct {
	Tier       models.Tier    `json:"tier"`
	Confidence float64        `json:"confidence"`
	Mode       ClassifierMode `json:"mode"`
}

// Fixed heuristic weights, derived from literature-based clinical weighting.
// Kept explicit so staff-facing explainability can surface them.
const (
	weightScaleScore = 0.3
	weightMood       = 0.3
	weightBadDays    = 0.2
	weightPressure   = 0.2
)

// Feature scaling between the check-in domain and the training data: the
// model was trained on raw PSS totals (0-40) and study pressure on a 1-10
// band, while the engine works with a normalized scale score and 1-5
// pressure ratings.
const (
	pssScoreMax       = 40.0
	pressureScaleStep = 2.0
)

// Model artifact class indexes.
var classTiers = []models.Tier{models.TierLow, models.TierMedium, models.TierHigh}

// RiskClassifier produces (tier, confidence) from the normalized scale score
// and behavioral features. When constructed with a loaded model it prefers
// model predictions; a prediction failure falls back to the heuristic for
// that call only. With a nil model it runs the heuristic permanently.
//
// The model is immutable after construction, so concurrent Classify calls
// need no locking.
type RiskClassifier struct {
	model *ml.ForestModel
	log   *logger.Logger
}

func NewRiskClassifier(model *ml.ForestModel, log *logger.Logger) *RiskClassifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &RiskClassifier{model: model, log: log}
}

// ModelBacked reports whether a trained model is loaded.
func (c *RiskClassifier) ModelBacked() bool { return c.model != nil }

// Classify takes the scale score normalized to [0,1], the rolling mood
// average (1-5), the bad-day count for the window, and the rolling academic
// pressure average (1-5). It never fails: every outcome is a usable verdict.
func (c *RiskClassifier) Classify(scaleScore, moodAvg float64, badDayCount int, pressureAvg float64) Classification {
	if c.model != nil {
		cl, err := c.classifyWithModel(scaleScore, moodAvg, badDayCount, pressureAvg)
		if err == nil {
			return cl
		}
		c.log.Warn("model prediction failed, falling back to heuristic", "error", err)
	}
	return c.classifyHeuristic(scaleScore, moodAvg, badDayCount, pressureAvg)
}

func (c *RiskClassifier) classifyWithModel(scaleScore, moodAvg float64, badDayCount int, pressureAvg float64) (Classification, error) {
	// Feature order fixed by the training pipeline:
	// [pss_score, mood_avg, bad_days_freq, study_pressure].
	features := []float64{
		scaleScore * pssScoreMax,
		moodAvg,
		float64(badDayCount),
		pressureAvg * pressureScaleStep,
	}
	classIdx, confidence, err := c.model.Predict(features)
	if err != nil {
		return Classification{}, err
	}
	if classIdx < 0 || classIdx >= len(classTiers) {
		return Classification{}, fmt.Errorf("model returned unknown class index %d", classIdx)
	}
	return Classification{Tier: classTiers[classIdx], Confidence: confidence, Mode: ModeModel}, nil
}

func (c *RiskClassifier) classifyHeuristic(scaleScore, moodAvg float64, badDayCount int, pressureAvg float64) Classification {
	// Each term normalized to [0,1]; mood is inverted so a higher mood
	// lowers the risk contribution.
	invMood := (5.0 - moodAvg) / 4.0
	badDays := float64(badDayCount) / float64(checkinWindow)
	if badDays > 1 {
		badDays = 1
	}
	pressure := (pressureAvg - 1.0) / 4.0

	score := scaleScore*weightScaleScore +
		invMood*weightMood +
		badDays*weightBadDays +
		pressure*weightPressure

	switch {
	case score < 0.3:
		return Classification{Tier: models.TierLow, Confidence: 1.0 - score, Mode: ModeHeuristic}
	case score < 0.6:
		conf := 1.0 - score
		if score > 0.5 {
			conf = score
		}
		return Classification{Tier: models.TierMedium, Confidence: conf, Mode: ModeHeuristic}
	default:
		return Classification{Tier: models.TierHigh, Confidence: score, Mode: ModeHeuristic}
	}
}

// FeatureImportance exposes the active mode's feature weights for
// staff-facing explainability: learned importances when model-backed,
// otherwise the fixed heuristic weights.
func (c *RiskClassifier) FeatureImportance() map[string]float64 {
	if c.model != nil {
		if imp := c.model.FeatureImportances(); imp != nil {
			return imp
		}
	}
	return map[string]float64{
		"scale_score":       weightScaleScore,
		"mood_avg":          weightMood,
		"bad_day_frequency": weightBadDays,
		"academic_pressure": weightPressure,
	}
}
