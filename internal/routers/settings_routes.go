package routers

import (
	"net/http"

	"jobprep/interview/internal/handlers"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func SettingsRoutes(router chi.Router, settingsHandler *handlers.SettingsHandler, protect ...func(http.Handler) http.Handler) {
	router.Route("/api/v1/settings", func(r chi.Router) {
		r.Use(protect...)
		r.Get("/", settingsHandler.GetSettings)
		r.With(middleware.ValidateRequest[*models.UpdateSettingsRequest]()).Put("/", settingsHandler.UpdateSettings)
	})
}
