package services

import "github.com/Ggus23/Integrador-Final/internal/models"

// CheckinReader abstracts the check-in history fetch needed by the aggregator.
type CheckinReader interface {
	ListRecentCheckins(userID int64, limit int) ([]*models.EmotionalCheckin, error)
}

// BehavioralFeatures is the fixed feature vector derived from recent
// check-in history and fed to the classifier.
type BehavioralFeatures struct {
	MoodAvg     float64
	BadDayCount int
	PressureAvg float64
}

const (
	checkinWindow = 7
	lowMoodCutoff = 3

	// Midpoints of the 1-5 mood and pressure scales, used when a user has
	// no history yet.
	neutralMood     = 3.0
	neutralPressure = 3.0
)

// FeatureAggregator derives behavioral features from the most recent
// check-ins of a user. Pure read, no writes.
type FeatureAggregator struct {
	store CheckinReader
}

func NewFeatureAggregator(store CheckinReader) *FeatureAggregator {
	return &FeatureAggregator{store: store}
}

// Aggregate reads up to the last 7 check-ins and computes the rolling mood
// average, the number of bad days (mood below 3) and the rolling academic
// pressure average. Check-ins without a pressure rating are excluded from
// the pressure average; neutral defaults apply when no data exists.
func (a *FeatureAggregator) Aggregate(userID int64) (BehavioralFeatures, error) {
	checkins, err := a.store.ListRecentCheckins(userID, checkinWindow)
	if err != nil {
		return BehavioralFeatures{}, err
	}
	if len(checkins) == 0 {
		return BehavioralFeatures{MoodAvg: neutralMood, PressureAvg: neutralPressure}, nil
	}

	moodSum := 0
	badDays := 0
	pressureSum := 0
	pressureN := 0
	for _, c := range checkins {
		moodSum += c.MoodScore
		if c.MoodScore < lowMoodCutoff {
			badDays++
		}
		if c.AcademicPressure != nil {
			pressureSum += *c.AcademicPressure
			pressureN++
		}
	}

	feats := BehavioralFeatures{
		MoodAvg:     float64(moodSum) / float64(len(checkins)),
		BadDayCount: badDays,
		PressureAvg: neutralPressure,
	}
	if pressureN > 0 {
		feats.PressureAvg = float64(pressureSum) / float64(pressureN)
	}
	return feats, nil
}
