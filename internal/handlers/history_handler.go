package handlers

import (
	"net/http"

	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HistoryReader is the query side of history persistence.
type HistoryReader interface {
	GetByUserID(userID string) ([]models.InterviewHistory, error)
	GetBySessionID(userID, sessionID string) (*models.InterviewHistory, error)
}

type HistoryHandler struct {
	Repo   HistoryReader
	Logger *zap.Logger
}

// GetUserHistory lists the caller's interview history, most recent first.
func (h *HistoryHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	histories, err := h.Repo.GetByUserID(middleware.UserID(r))
	if err != nil {
		h.Logger.Error("failed to retrieve history", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	utils.JSON(w, http.StatusOK, histories)
}

// GetSessionDetails returns one history record of the caller.
func (h *HistoryHandler) GetSessionDetails(w http.ResponseWriter, r *http.Request) {
	history, err := h.Repo.GetBySessionID(middleware.UserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, history)
}
