package routers

import (
	"net/http"

	"jobprep/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func HistoryRoutes(router chi.Router, historyHandler *handlers.HistoryHandler, protect ...func(http.Handler) http.Handler) {
	router.Route("/api/v1/history", func(r chi.Router) {
		r.Use(protect...)
		r.Get("/", historyHandler.GetUserHistory)        // caller's interview history
		r.Get("/{id}", historyHandler.GetSessionDetails) // one session by ID
	})
}
