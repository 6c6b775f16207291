package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/repositories"
	"jobprep/interview/internal/testhelpers"

	"go.uber.org/zap"
)

func seedHistory(t *testing.T, repo *repositories.HistoryRepository, sessionID, userID string, at time.Time) {
	t.Helper()
	err := repo.Record(context.Background(), interview.HistoryRecord{
		SessionID:         sessionID,
		UserID:            userID,
		Timestamp:         at,
		Role:              "Data Scientist",
		Difficulty:        "Advanced",
		QuestionsAnswered: 5,
		TotalQuestions:    5,
		Score:             interview.Score{Overall: 81, Technical: 80, Communication: 84, ProblemSolving: 78, CultureFit: 83},
	})
	if err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}
}

func TestGetUserHistory(t *testing.T) {
	repo := &repositories.HistoryRepository{DB: testhelpers.SetupTestDB(t)}
	now := time.Now().UTC()
	seedHistory(t, repo, "s-old", "u1", now.Add(-time.Hour))
	seedHistory(t, repo, "s-new", "u1", now)
	seedHistory(t, repo, "s-other", "u2", now)

	h := &HistoryHandler{Repo: repo, Logger: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.GetUserHistory(rec, asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []models.InterviewHistory
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(got) != 2 || got[0].SessionID != "s-new" || got[1].SessionID != "s-old" {
		t.Fatalf("unexpected history order: %+v", got)
	}
}

func TestGetUserHistoryDBError(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.DropHistoryTable(t, db)

	h := &HistoryHandler{Repo: &repositories.HistoryRepository{DB: db}, Logger: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.GetUserHistory(rec, asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u1"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetSessionDetails(t *testing.T) {
	repo := &repositories.HistoryRepository{DB: testhelpers.SetupTestDB(t)}
	seedHistory(t, repo, "s1", "u1", time.Now())
	h := &HistoryHandler{Repo: repo, Logger: zap.NewNop()}

	req := addURLParam(asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u1"), "id", "s1")
	rec := httptest.NewRecorder()
	h.GetSessionDetails(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.InterviewHistory
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	if got.OverallScore != 81 || got.Role != "Data Scientist" {
		t.Fatalf("unexpected record: %+v", got)
	}

	req = addURLParam(asUser(httptest.NewRequest(http.MethodGet, "/", nil), "u2"), "id", "s1")
	rec = httptest.NewRecorder()
	h.GetSessionDetails(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's record, got %d", rec.Code)
	}
}
