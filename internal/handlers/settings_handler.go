package handlers

import (
	"context"
	"net/http"

	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"

	"go.uber.org/zap"
)

type SettingsRepository interface {
	Get(ctx context.Context, userID string) (models.UserSettings, error)
	Save(ctx context.Context, userID string, s models.UserSettings) error
}

type SettingsHandler struct {
	Repo   SettingsRepository
	Logger *zap.Logger
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repo.Get(r.Context(), middleware.UserID(r))
	if err != nil {
		h.Logger.Error("failed to load settings", zap.Error(err))
		utils.JSONError(w, http.StatusServiceUnavailable, "Settings are temporarily unavailable")
		return
	}
	utils.JSON(w, http.StatusOK, settings)
}

// UpdateSettings merges the provided fields. Running sessions keep the settings
// they started with.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateSettingsRequest](r)
	userID := middleware.UserID(r)

	current, err := h.Repo.Get(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to load settings", zap.Error(err))
		utils.JSONError(w, http.StatusServiceUnavailable, "Settings are temporarily unavailable")
		return
	}
	updated := req.Apply(current)
	if err := h.Repo.Save(r.Context(), userID, updated); err != nil {
		h.Logger.Error("failed to save settings", zap.Error(err))
		utils.JSONError(w, http.StatusServiceUnavailable, "Settings are temporarily unavailable")
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}
