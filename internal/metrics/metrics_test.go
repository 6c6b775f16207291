package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("test"))
	r.Get("/api/v1/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/abc-123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(httpRequests.WithLabelValues("test", "GET", "/api/v1/interviews/{id}", "418"))
	if got != 1 {
		t.Fatalf("expected one request recorded under route pattern, got %v", got)
	}
}

func TestInterviewCounters(t *testing.T) {
	before := testutil.ToFloat64(sessionsFinished.WithLabelValues("completed"))
	SessionFinished("completed")
	if after := testutil.ToFloat64(sessionsFinished.WithLabelValues("completed")); after != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, after)
	}

	SetActiveSessions(3)
	if got := testutil.ToFloat64(activeSessions); got != 3 {
		t.Fatalf("expected gauge 3, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	AnswerSubmitted()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "jobprep_interview_answers_submitted_total") {
		t.Fatalf("expected interview metrics in output")
	}
}
