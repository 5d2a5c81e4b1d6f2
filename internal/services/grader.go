package services

import (
	"strconv"

	"quizbox-backend/internal/models"
)

// Grade scores submitted answers against a quiz's questions. Answers are
// keyed by the question ID as a string; a missing or non-string entry counts
// as unanswered, never as an error. Comparison is exact and case-sensitive.
// Feedback preserves the order of questions.
func Grade(questions []models.Question, answers map[string]any) (int, []models.FeedbackEntry) {
	score := 0
	feedback := make([]models.FeedbackEntry, 0, len(questions))

	for _, q := range questions {
		var submitted *string
		if v, ok := answers[strconv.FormatInt(q.ID, 10)]; ok {
			if s, ok := v.(string); ok {
				submitted = &s
			}
		}

		correct := submitted != nil && *submitted == q.CorrectOption
		if correct {
			score++
		}

		feedback = append(feedback, models.FeedbackEntry{
			Question:      q.Text,
			YourAnswer:    submitted,
			CorrectAnswer: q.CorrectOption,
			Correct:       correct,
		})
	}

	return score, feedback
}
