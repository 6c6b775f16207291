package routers

import (
	"net/http"

	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router chi.Router, interviewHandler *handlers.InterviewHandler, protect ...func(http.Handler) http.Handler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(protect...)

		r.Get("/roles", interviewHandler.ListRoles) // must precede /{id}
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.CreateInterview)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", interviewHandler.GetInterview)
			r.Get("/ws", interviewHandler.WatchInterview)
			r.Post("/answering", interviewHandler.BeginAnswering)
			r.With(middleware.ValidateRequest[*models.UpdateAnswerRequest]()).Put("/answer", interviewHandler.UpdateAnswer)
			r.Post("/recording", interviewHandler.UploadRecording)
			r.Post("/media-unavailable", interviewHandler.MediaUnavailable)
			r.Post("/submit", interviewHandler.SubmitAnswer)
			r.Post("/advance", interviewHandler.Advance)
			r.Post("/skip", interviewHandler.Skip)
			r.Post("/end", interviewHandler.End)
		})
	})
}
