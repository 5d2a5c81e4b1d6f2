package services

import (
	"testing"

	"quizbox-backend/internal/models"
)

func sampleQuestions() []models.Question {
	return []models.Question{
		{ID: 1, QuizID: 1, Text: "What is 2+2?", OptionA: "4", OptionB: "5", OptionC: "6", OptionD: "7", CorrectOption: "A"},
		{ID: 2, QuizID: 1, Text: "Capital of France?", OptionA: "Berlin", OptionB: "Paris", OptionC: "Rome", OptionD: "Madrid", CorrectOption: "B"},
		{ID: 3, QuizID: 1, Text: "Largest planet?", OptionA: "Mars", OptionB: "Venus", OptionC: "Jupiter", OptionD: "Saturn", CorrectOption: "C"},
	}
}

func TestGrade_AllCorrect(t *testing.T) {
	questions := sampleQuestions()
	answers := map[string]any{"1": "A", "2": "B", "3": "C"}

	score, feedback := Grade(questions, answers)

	if score != 3 {
		t.Errorf("Expected score 3, got %d", score)
	}
	if len(feedback) != 3 {
		t.Fatalf("Expected 3 feedback entries, got %d", len(feedback))
	}
	for i, entry := range feedback {
		if !entry.Correct {
			t.Errorf("Entry %d expected correct=true", i)
		}
	}
}

func TestGrade_EmptyAnswers(t *testing.T) {
	questions := sampleQuestions()

	score, feedback := Grade(questions, map[string]any{})

	if score != 0 {
		t.Errorf("Expected score 0, got %d", score)
	}
	if len(feedback) != 3 {
		t.Fatalf("Expected feedback for every question, got %d entries", len(feedback))
	}
	for i, entry := range feedback {
		if entry.YourAnswer != nil {
			t.Errorf("Entry %d expected absent answer, got %q", i, *entry.YourAnswer)
		}
		if entry.Correct {
			t.Errorf("Entry %d expected correct=false", i)
		}
	}
}

func TestGrade_PartialAndWrong(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Q1", CorrectOption: "A"},
		{ID: 2, Text: "Q2", CorrectOption: "B"},
	}
	answers := map[string]any{"1": "A", "2": "C"}

	score, feedback := Grade(questions, answers)

	if score != 1 {
		t.Errorf("Expected score 1, got %d", score)
	}
	if !feedback[0].Correct || *feedback[0].YourAnswer != "A" || feedback[0].CorrectAnswer != "A" {
		t.Errorf("Entry 0 mismatch: %+v", feedback[0])
	}
	if feedback[1].Correct || *feedback[1].YourAnswer != "C" || feedback[1].CorrectAnswer != "B" {
		t.Errorf("Entry 1 mismatch: %+v", feedback[1])
	}
}

func TestGrade_CaseSensitive(t *testing.T) {
	questions := []models.Question{{ID: 1, Text: "Q1", CorrectOption: "A"}}

	score, _ := Grade(questions, map[string]any{"1": "a"})

	if score != 0 {
		t.Errorf("Lowercase answer must not match, got score %d", score)
	}
}

func TestGrade_MalformedEntriesTolerated(t *testing.T) {
	questions := sampleQuestions()
	// Non-string values and unknown keys must be tolerated, not rejected.
	answers := map[string]any{
		"1":   float64(2),
		"2":   "B",
		"999": "A",
	}

	score, feedback := Grade(questions, answers)

	if score != 1 {
		t.Errorf("Expected score 1, got %d", score)
	}
	if feedback[0].YourAnswer != nil {
		t.Errorf("Non-string answer should count as unanswered, got %q", *feedback[0].YourAnswer)
	}
}

func TestGrade_FeedbackPreservesQuestionOrder(t *testing.T) {
	questions := sampleQuestions()

	_, feedback := Grade(questions, map[string]any{})

	for i, q := range questions {
		if feedback[i].Question != q.Text {
			t.Errorf("Entry %d expected question %q, got %q", i, q.Text, feedback[i].Question)
		}
	}
}
