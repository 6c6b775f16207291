package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"
)

// maxRequestBody bounds JSON request bodies. Recordings use their own upload route.
const maxRequestBody = 1 << 20

type contextKey string

const validatedRequestKey contextKey = "validated_request"

// Validator is implemented by request models that check their own fields.
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into a new T and rejects the request with
// 400 unless T.Validate passes. T must be a pointer to a struct.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	elem := reflect.TypeOf((*T)(nil)).Elem().Elem()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := reflect.New(elem).Interface().(T)
			body := http.MaxBytesReader(w, r.Body, maxRequestBody)
			if err := json.NewDecoder(body).Decode(req); err != nil {
				utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
					Code:    "invalid_json",
					Message: "Invalid JSON in request body",
				})
				return
			}
			if err := req.Validate(); err != nil {
				utils.JSON(w, http.StatusBadRequest, validationResponse(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), validatedRequestKey, req)))
		})
	}
}

func validationResponse(err error) models.ErrorResponse {
	var resp *models.ErrorResponse
	if errors.As(err, &resp) {
		return *resp
	}
	return models.ErrorResponse{Code: "validation_error", Message: err.Error()}
}

// GetValidatedRequest returns the request stored by ValidateRequest, or the zero
// T when the route is not behind it.
func GetValidatedRequest[T any](r *http.Request) T {
	req, _ := r.Context().Value(validatedRequestKey).(T)
	return req
}
