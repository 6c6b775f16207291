package handlers

import (
	"io"
	"net/http"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/questionbank"
	"jobprep/interview/internal/services"
	"jobprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RoleLister exposes the roles that have question sets.
type RoleLister interface {
	Roles() []string
}

type InterviewHandler struct {
	sessions *services.SessionManager
	roles    RoleLister
	logger   *zap.Logger
}

func NewInterviewHandler(sessions *services.SessionManager, roles RoleLister, logger *zap.Logger) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{sessions: sessions, roles: roles, logger: logger}
}

// session resolves the {id} URL param to the caller's engine, writing the error if any.
func (h *InterviewHandler) session(w http.ResponseWriter, r *http.Request) (*interview.Engine, bool) {
	e, err := h.sessions.Get(middleware.UserID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return e, true
}

// transition runs op against the session and answers with the resulting snapshot.
func (h *InterviewHandler) transition(op func(*interview.Engine) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.session(w, r)
		if !ok {
			return
		}
		if err := op(e); err != nil {
			writeError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, e.Snapshot())
	}
}

func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)

	e, err := h.sessions.Create(r.Context(), middleware.UserID(r), *req)
	if err != nil {
		if !interview.IsValidation(err) {
			h.logger.Error("failed to create interview", zap.Error(err))
		}
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, e.Snapshot())
}

func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, e.Snapshot())
}

func (h *InterviewHandler) BeginAnswering(w http.ResponseWriter, r *http.Request) {
	h.transition((*interview.Engine).BeginAnswering)(w, r)
}

func (h *InterviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	h.transition((*interview.Engine).SubmitAnswer)(w, r)
}

func (h *InterviewHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition((*interview.Engine).Advance)(w, r)
}

func (h *InterviewHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.transition((*interview.Engine).Skip)(w, r)
}

func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	h.transition((*interview.Engine).End)(w, r)
}

// MediaUnavailable records that the client lost camera or microphone access.
func (h *InterviewHandler) MediaUnavailable(w http.ResponseWriter, r *http.Request) {
	h.transition(func(e *interview.Engine) error {
		e.MediaUnavailable()
		return nil
	})(w, r)
}

// UpdateAnswer switches answer mode and/or replaces the pending text, in that order.
func (h *InterviewHandler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateAnswerRequest](r)
	h.transition(func(e *interview.Engine) error {
		if req.Mode != "" {
			if err := e.SetAnswerMode(interview.AnswerMode(req.Mode)); err != nil {
				return err
			}
		}
		if req.Text != nil {
			return e.UpdateText(*req.Text)
		}
		return nil
	})(w, r)
}

// UploadRecording takes the raw recording as the request body.
func (h *InterviewHandler) UploadRecording(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, models.MaxRecordingBytes))
	if err != nil {
		utils.JSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Code:    "recording_too_large",
			Message: "Recording exceeds the maximum allowed size",
		})
		return
	}

	mediaType := r.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	if err := e.AttachRecording(body, mediaType); err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e.Snapshot())
}

func (h *InterviewHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.RolesResponse{
		Roles:        h.roles.Roles(),
		DefaultRole:  questionbank.DefaultRole,
		Difficulties: models.ValidDifficultiesList(),
	})
}
