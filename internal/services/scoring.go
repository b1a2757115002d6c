package services

// Scale type keys as stored on assessment definitions.
const (
	ScalePSS10 = "PSS-10"
	ScaleGAD7  = "GAD-7"
	ScalePHQ9  = "PHQ-9"
)

// PSS-10 items answered on a 0-4 frequency scale. Items 4, 5, 7 and 8 are
// positively worded and reverse-coded before summation (Cohen et al., 1983).
const pssItemMax = 4

var pssReverseItems = map[string]bool{
	"q4": true,
	"q5": true,
	"q7": true,
	"q8": true,
}

// Score computes the raw total for a scale from per-item answers.
// GAD-7 and PHQ-9 are direct sums of 0-3 answers; unrecognized scale types
// also fall back to a direct sum rather than failing. Answers are not
// bounds-checked here; the input layer validates them against the item
// ranges declared on the assessment definition.
func Score(scaleType string, answers map[string]int) float64 {
	total := 0
	switch scaleType {
	case ScalePSS10:
		for itemID, v := range answers {
			if pssReverseItems[itemID] {
				total += pssItemMax - v
			} else {
				total += v
			}
		}
	default:
		for _, v := range answers {
			total += v
		}
	}
	return float64(total)
}
