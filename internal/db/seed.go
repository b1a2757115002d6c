package db

import "github.com/Ggus23/Integrador-Final/internal/models"

func likertItems(ids []string, prompts []string, min, max int) []models.AssessmentItem {
	items := make([]models.AssessmentItem, len(ids))
	for i := range ids {
		items[i] = models.AssessmentItem{ID: ids[i], Question: prompts[i], ScaleMin: min, ScaleMax: max}
	}
	return items
}

// SeedDefaultAssessments inserts the three clinical scale definitions when
// the catalog is empty. Idempotent across restarts.
func SeedDefaultAssessments(store Store) (int, error) {
	existing, err := store.ListAssessments()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	defs := []*models.Assessment{
		{
			Title:       "Perceived Stress Scale",
			Description: "Ten items measuring how unpredictable, uncontrollable and overloaded life has felt over the last month (Cohen et al., 1983).",
			Type:        "PSS-10",
			Items: likertItems(
				[]string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10"},
				[]string{
					"In the last month, how often have you been upset because of something that happened unexpectedly?",
					"In the last month, how often have you felt that you were unable to control the important things in your life?",
					"In the last month, how often have you felt nervous and stressed?",
					"In the last month, how often have you felt confident about your ability to handle your personal problems?",
					"In the last month, how often have you felt that things were going your way?",
					"In the last month, how often have you found that you could not cope with all the things that you had to do?",
					"In the last month, how often have you been able to control irritations in your life?",
					"In the last month, how often have you felt that you were on top of things?",
					"In the last month, how often have you been angered because of things that happened outside of your control?",
					"In the last month, how often have you felt difficulties were piling up so high that you could not overcome them?",
				},
				0, 4,
			),
		},
		{
			Title:       "Generalized Anxiety Disorder Scale",
			Description: "Seven items screening for anxiety symptoms over the last two weeks (Spitzer et al., 2006).",
			Type:        "GAD-7",
			Items: likertItems(
				[]string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"},
				[]string{
					"Feeling nervous, anxious or on edge.",
					"Not being able to stop or control worrying.",
					"Worrying too much about different things.",
					"Trouble relaxing.",
					"Being so restless that it is hard to sit still.",
					"Becoming easily annoyed or irritable.",
					"Feeling afraid as if something awful might happen.",
				},
				0, 3,
			),
		},
		{
			Title:       "Patient Health Questionnaire",
			Description: "Nine items screening for depressive symptoms over the last two weeks (Kroenke et al., 2001).",
			Type:        "PHQ-9",
			Items: likertItems(
				[]string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9"},
				[]string{
					"Little interest or pleasure in doing things.",
					"Feeling down, depressed or hopeless.",
					"Trouble falling or staying asleep, or sleeping too much.",
					"Feeling tired or having little energy.",
					"Poor appetite or overeating.",
					"Feeling bad about yourself, or that you are a failure.",
					"Trouble concentrating on things, such as reading or studying.",
					"Moving or speaking noticeably slowly, or being unusually fidgety or restless.",
					"Thoughts that you would be better off dead or of hurting yourself.",
				},
				0, 3,
			),
		},
	}

	for _, def := range defs {
		if _, err := store.InsertAssessment(def); err != nil {
			return 0, err
		}
	}
	return len(defs), nil
}
