package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quizbox-backend/internal/middleware"
	"quizbox-backend/internal/models"
	"quizbox-backend/internal/repository"
	"quizbox-backend/internal/services"
)

// QuizHandler serves the authenticated user-facing side: browsing quizzes,
// listing questions, submitting answers and reading own results.
type QuizHandler struct {
	quizzes *repository.QuizRepo
	results *repository.ResultRepo
}

func NewQuizHandler(quizzes *repository.QuizRepo, results *repository.ResultRepo) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, results: results}
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch quizzes")
		return
	}

	writeJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found.")
		return
	}

	if _, err := h.quizzes.GetByID(r.Context(), quizID); err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found.")
		return
	}

	questions, err := h.quizzes.ListQuestions(r.Context(), quizID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Submit grades a quiz submission and appends a Result. Resubmissions are
// allowed and produce separate results.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	quiz, err := h.quizzes.GetByID(r.Context(), quizID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	// An empty body is treated as an empty submission, not an error.
	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answers, err := decodeAnswers(req.Answers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid answers format")
		return
	}

	questions, err := h.quizzes.ListQuestions(r.Context(), quiz.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}

	score, feedback := services.Grade(questions, answers)

	user := middleware.UserFrom(r.Context())
	result := &models.Result{
		UserID:   user.ID,
		QuizID:   quiz.ID,
		Score:    score,
		Feedback: feedback,
	}
	if err := h.results.Create(r.Context(), result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save result")
		return
	}

	writeJSON(w, http.StatusOK, models.SubmissionResponse{
		Score:          score,
		TotalQuestions: len(questions),
		Feedback:       feedback,
	})
}

func (h *QuizHandler) MyResults(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	results, err := h.results.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch results")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// decodeAnswers accepts only a JSON object. An absent key defaults to an
// empty mapping, but an explicit null is not a mapping and is rejected like
// any other non-object value. Entry values are left untyped; grading
// tolerates whatever they hold.
func decodeAnswers(raw json.RawMessage) (map[string]any, error) {
	answers := make(map[string]any)
	if len(raw) == 0 {
		return answers, nil
	}
	if string(raw) == "null" {
		return nil, fmt.Errorf("answers is not a mapping")
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("answers is not a mapping: %w", err)
	}
	return answers, nil
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
