package models

import "time"

type Quiz struct {
	ID          int64     `json:"id"`
	Title       *string   `json:"title"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes, informational only
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID            int64  `json:"id"`
	QuizID        int64  `json:"-"`
	Text          string `json:"text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
}

// QuizRequest covers both create and partial update; absent fields stay nil
// so updates retain prior values.
type QuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *int    `json:"duration"`
}

type QuestionRequest struct {
	Text          *string `json:"text"`
	OptionA       *string `json:"option_a"`
	OptionB       *string `json:"option_b"`
	OptionC       *string `json:"option_c"`
	OptionD       *string `json:"option_d"`
	CorrectOption *string `json:"correct_option"`
}
