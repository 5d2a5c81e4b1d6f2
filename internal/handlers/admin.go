package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"quizbox-backend/internal/models"
	"quizbox-backend/internal/repository"
)

// AdminHandler owns the catalog mutations and cross-user result visibility.
// Routes using it sit behind the admin gate.
type AdminHandler struct {
	quizzes *repository.QuizRepo
	results *repository.ResultRepo
}

func NewAdminHandler(quizzes *repository.QuizRepo, results *repository.ResultRepo) *AdminHandler {
	return &AdminHandler{quizzes: quizzes, results: results}
}

func (h *AdminHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizzes.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch quizzes")
		return
	}

	writeJSON(w, http.StatusOK, quizzes)
}

func (h *AdminHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := make(map[string]string)
	if req.Description == nil || *req.Description == "" {
		fieldErrors["description"] = "This field is required."
	}
	if req.Duration == nil {
		fieldErrors["duration"] = "This field is required."
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	quiz := &models.Quiz{
		Title:       req.Title,
		Description: *req.Description,
		Duration:    *req.Duration,
	}
	if err := h.quizzes.Create(r.Context(), quiz); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create quiz")
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

// UpdateQuiz is a partial update: absent fields keep their stored values.
func (h *AdminHandler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
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

	var req models.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Description != nil && *req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"description": "This field may not be blank.",
		})
		return
	}

	if req.Title != nil {
		quiz.Title = req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Duration != nil {
		quiz.Duration = *req.Duration
	}

	if err := h.quizzes.Update(r.Context(), quiz); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update quiz")
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (h *AdminHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	if _, err := h.quizzes.GetByID(r.Context(), quizID); err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	if err := h.quizzes.Delete(r.Context(), quizID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete quiz")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	if _, err := h.quizzes.GetByID(r.Context(), quizID); err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	questions, err := h.quizzes.ListQuestions(r.Context(), quizID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
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

	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := validateNewQuestion(req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	question := &models.Question{
		QuizID:        quiz.ID,
		Text:          *req.Text,
		OptionA:       *req.OptionA,
		OptionB:       *req.OptionB,
		OptionC:       *req.OptionC,
		OptionD:       *req.OptionD,
		CorrectOption: *req.CorrectOption,
	}
	if err := h.quizzes.CreateQuestion(r.Context(), question); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}

	question, err := h.quizzes.GetQuestionByID(r.Context(), questionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}

	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrors := validateQuestionUpdate(req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrors)
		return
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.OptionA != nil {
		question.OptionA = *req.OptionA
	}
	if req.OptionB != nil {
		question.OptionB = *req.OptionB
	}
	if req.OptionC != nil {
		question.OptionC = *req.OptionC
	}
	if req.OptionD != nil {
		question.OptionD = *req.OptionD
	}
	if req.CorrectOption != nil {
		question.CorrectOption = *req.CorrectOption
	}

	if err := h.quizzes.UpdateQuestion(r.Context(), question); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update question")
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}

	if _, err := h.quizzes.GetQuestionByID(r.Context(), questionID); err != nil {
		writeError(w, http.StatusNotFound, "Question not found")
		return
	}

	if err := h.quizzes.DeleteQuestion(r.Context(), questionID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// QuizResults returns every user's results for one quiz.
func (h *AdminHandler) QuizResults(w http.ResponseWriter, r *http.Request) {
	quizID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	if _, err := h.quizzes.GetByID(r.Context(), quizID); err != nil {
		writeError(w, http.StatusNotFound, "Quiz not found")
		return
	}

	results, err := h.results.ListByQuiz(r.Context(), quizID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch results")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func validateNewQuestion(req models.QuestionRequest) map[string]string {
	fieldErrors := make(map[string]string)

	required := map[string]*string{
		"text":           req.Text,
		"option_a":       req.OptionA,
		"option_b":       req.OptionB,
		"option_c":       req.OptionC,
		"option_d":       req.OptionD,
		"correct_option": req.CorrectOption,
	}
	for field, val := range required {
		if val == nil || *val == "" {
			fieldErrors[field] = "This field is required."
		}
	}

	if req.CorrectOption != nil && *req.CorrectOption != "" && !validOption(*req.CorrectOption) {
		fieldErrors["correct_option"] = fmt.Sprintf("%q is not a valid choice.", *req.CorrectOption)
	}

	return fieldErrors
}

// validateQuestionUpdate checks a partial update: absent fields are fine,
// but a field that is present may not be blank.
func validateQuestionUpdate(req models.QuestionRequest) map[string]string {
	fieldErrors := make(map[string]string)

	present := map[string]*string{
		"text":           req.Text,
		"option_a":       req.OptionA,
		"option_b":       req.OptionB,
		"option_c":       req.OptionC,
		"option_d":       req.OptionD,
		"correct_option": req.CorrectOption,
	}
	for field, val := range present {
		if val != nil && *val == "" {
			fieldErrors[field] = "This field may not be blank."
		}
	}

	if req.CorrectOption != nil && *req.CorrectOption != "" && !validOption(*req.CorrectOption) {
		fieldErrors["correct_option"] = fmt.Sprintf("%q is not a valid choice.", *req.CorrectOption)
	}

	return fieldErrors
}

func validOption(s string) bool {
	return s == "A" || s == "B" || s == "C" || s == "D"
}
