package services

import "github.com/Ggus23/Integrador-Final/internal/models"

// TierFor maps a raw scale score to a risk tier using published clinical cut
// points. Kept separate from Score so thresholds can be revised without
// touching scoring logic.
//
//	PSS-10 (0-40): 0-13 Low, 14-26 Medium, 27+ High  (Cohen et al., 1983)
//	GAD-7  (0-21): 0-9 Low, 10-14 Medium, 15+ High   (Spitzer et al., 2006)
//	PHQ-9  (0-27): 0-9 Low, 10-14 Medium, 15+ High   (Kroenke et al., 2001)
//
// Unknown scale types map to Low.
func TierFor(scaleType string, score float64) models.Tier {
	switch scaleType {
	case ScalePSS10:
		if score <= 13 {
			return models.TierLow
		}
		if score <= 26 {
			return models.TierMedium
		}
		return models.TierHigh
	case ScaleGAD7, ScalePHQ9:
		// Mild symptom bands are treated as Low for triage purposes.
		if score <= 9 {
			return models.TierLow
		}
		if score <= 14 {
			return models.TierMedium
		}
		return models.TierHigh
	}
	return models.TierLow
}

// MoodTier gives the quick risk read for a single check-in mood score
// (1 very bad .. 5 very good).
func MoodTier(mood int) models.Tier {
	switch {
	case mood >= 4:
		return models.TierLow
	case mood == 3:
		return models.TierMedium
	default:
		return models.TierHigh
	}
}
