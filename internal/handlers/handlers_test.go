package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/middleware"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/services"

	"github.com/go-chi/chi/v5"
)

type stubBank map[string][]string

func (b stubBank) Questions(role, _ string) []string {
	if qs, ok := b[role]; ok {
		return qs
	}
	return b["Frontend Developer"]
}

func (b stubBank) Roles() []string {
	return []string{"Data Scientist", "Frontend Developer"}
}

var testBank = stubBank{
	"Frontend Developer": {"What is the DOM?", "Explain closures."},
	"Data Scientist":     {"q1", "q2", "q3", "q4", "q5"},
}

func addURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func newTestSessions(t *testing.T, history interview.HistorySink) *services.SessionManager {
	t.Helper()
	m := services.NewSessionManager(services.SessionManagerConfig{
		Questions: testBank,
		History:   history,
		NewRandom: func() interview.Random { return rand.New(rand.NewSource(1)) },
	})
	t.Cleanup(m.Shutdown)
	return m
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) interview.Snapshot {
	t.Helper()
	var snap interview.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v (%s)", err, rec.Body.String())
	}
	return snap
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v (%s)", err, rec.Body.String())
	}
	return resp
}

// validated runs body through the same validation middleware the router uses.
func validated[T middleware.Validator](handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.ValidateRequest[T]()(handler).ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return bytes.NewBuffer(b)
}
