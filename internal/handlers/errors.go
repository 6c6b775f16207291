package handlers

import (
	"errors"
	"net/http"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/repositories"
	"jobprep/interview/internal/services"
	"jobprep/interview/internal/utils"
)

// writeError maps domain errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var stateErr *interview.InvalidStateError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, repositories.ErrRecordNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, interview.ErrMediaUnavailable):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "media_unavailable", Message: err.Error()})
	case interview.IsValidation(err):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "validation_error", Message: err.Error()})
	case errors.As(err, &stateErr):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "invalid_state",
			Message: err.Error(),
			Details: []models.ValidationErrorDetail{{Field: "status", Reason: string(stateErr.Status)}},
		})
	default:
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "internal server error"})
	}
}
