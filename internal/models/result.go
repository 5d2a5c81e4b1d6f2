package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is a per-question grading outcome, snapshotted at grading
// time. Later edits to the quiz's questions never alter stored entries.
type FeedbackEntry struct {
	Question      string  `json:"question"`
	YourAnswer    *string `json:"your_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	Correct       bool    `json:"correct"`
}

type Result struct {
	ID          int64           `json:"id"`
	UserID      uuid.UUID       `json:"-"`
	QuizID      int64           `json:"quiz"`
	Score       int             `json:"score"`
	Feedback    []FeedbackEntry `json:"feedback"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// SubmitRequest keeps answers raw so the handler can distinguish a missing
// or non-object payload from a valid mapping.
type SubmitRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type SubmissionResponse struct {
	Score          int             `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	Feedback       []FeedbackEntry `json:"feedback"`
}
