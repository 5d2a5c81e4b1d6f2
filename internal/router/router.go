package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"quizbox-backend/internal/handlers"
	"quizbox-backend/internal/middleware"
)

func New(
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	adminHandler *handlers.AdminHandler,
	allowedOrigin string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(allowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Public ────
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/refresh", authHandler.Refresh)

	// ──── Authenticated users ────
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/profile", authHandler.Profile)
		r.Post("/logout", authHandler.Logout)

		r.Get("/quizzes", quizHandler.List)
		r.Get("/quizzes/{id}/questions", quizHandler.Questions)
		r.Post("/quizzes/{id}/submit", quizHandler.Submit)
		r.Get("/results", quizHandler.MyResults)
	})

	// ──── Admin ────
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Use(middleware.RequireAdmin)

		r.Get("/quizzes", adminHandler.ListQuizzes)
		r.Post("/quizzes", adminHandler.CreateQuiz)
		r.Put("/quizzes/{id}", adminHandler.UpdateQuiz)
		r.Delete("/quizzes/{id}", adminHandler.DeleteQuiz)
		r.Get("/quizzes/{id}/questions", adminHandler.ListQuestions)
		r.Post("/quizzes/{id}/questions", adminHandler.AddQuestion)
		r.Get("/quizzes/{id}/results", adminHandler.QuizResults)
		r.Put("/questions/{id}", adminHandler.UpdateQuestion)
		r.Delete("/questions/{id}", adminHandler.DeleteQuestion)
	})

	return r
}
