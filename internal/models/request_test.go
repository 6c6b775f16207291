package models

import (
	"testing"
)

func expectErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %s but got nil", code)
	}
	resp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", err)
	}
	if resp.Code != code {
		t.Fatalf("expected error code %s, got %s", code, resp.Code)
	}
}

func TestErrorResponse_Error(t *testing.T) {
	err := &ErrorResponse{Message: "failed"}
	if err.Error() != "failed" {
		t.Fatalf("expected message to be returned, got %s", err.Error())
	}
}

func TestCreateInterviewRequestValidate(t *testing.T) {
	t.Run("missing role", func(t *testing.T) {
		expectErrCode(t, (&CreateInterviewRequest{Role: "   "}).Validate(), "missing_role")
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		req := &CreateInterviewRequest{Role: "Data Scientist", Difficulty: "insane"}
		expectErrCode(t, req.Validate(), "invalid_difficulty")
	})

	t.Run("normalizes fields", func(t *testing.T) {
		req := &CreateInterviewRequest{Role: " Data  Scientist ", Difficulty: "ADVANCED"}
		if err := req.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Role != "Data Scientist" || req.Difficulty != "Advanced" {
			t.Fatalf("unexpected normalization: %+v", req)
		}
	})

	t.Run("difficulty optional", func(t *testing.T) {
		if err := (&CreateInterviewRequest{Role: "Product Manager"}).Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestUpdateAnswerRequestValidate(t *testing.T) {
	expectErrCode(t, (&UpdateAnswerRequest{}).Validate(), "empty_update")
	expectErrCode(t, (&UpdateAnswerRequest{Mode: "telepathy"}).Validate(), "invalid_mode")

	text := "hello"
	req := &UpdateAnswerRequest{Mode: " Voice ", Text: &text}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Mode != "voice" {
		t.Fatalf("expected lowercased mode, got %q", req.Mode)
	}
}

func TestUpdateSettingsRequest(t *testing.T) {
	expectErrCode(t, (&UpdateSettingsRequest{}).Validate(), "empty_update")

	bad := "expert"
	expectErrCode(t, (&UpdateSettingsRequest{Difficulty: &bad}).Validate(), "invalid_difficulty")

	off := false
	on := true
	d := "beginner"
	req := &UpdateSettingsRequest{AIEnabled: &off, Difficulty: &d, RecordPartial: &on}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := req.Apply(DefaultUserSettings())
	if got.AIEnabled || !got.RecordPartial || got.Difficulty != "Beginner" {
		t.Fatalf("unexpected merged settings: %+v", got)
	}
}

func TestSettingsSnapshot(t *testing.T) {
	s := UserSettings{AIEnabled: true, VoiceEnabled: true, Difficulty: "Advanced"}
	snap := s.Snapshot(true)
	if !snap.AIEnabled || !snap.VoiceEnabled || !snap.MediaAvailable || snap.Difficulty != "Advanced" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
