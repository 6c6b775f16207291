package models

import (
	"strings"

	"jobprep/interview/internal/utils"
)

type CreateInterviewRequest struct {
	Role           string `json:"role"`
	Difficulty     string `json:"difficulty"`
	MediaAvailable bool   `json:"mediaAvailable"`
}

// implements the Validator interface
func (r *CreateInterviewRequest) Validate() error {
	r.Role = utils.NormalizeRole(r.Role)
	if r.Role == "" {
		return &ErrorResponse{
			Code:    "missing_role",
			Message: "Role field is required",
		}
	}

	r.Difficulty = utils.NormalizeDifficulty(r.Difficulty)
	if r.Difficulty != "" && !ValidDifficulties[strings.ToLower(r.Difficulty)] {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: " + strings.Join(ValidDifficultiesList(), ", "),
		}
	}
	return nil
}

// UpdateAnswerRequest switches the answer mode and/or replaces the pending text.
type UpdateAnswerRequest struct {
	Mode string  `json:"mode"`
	Text *string `json:"text"`
}

func (r *UpdateAnswerRequest) Validate() error {
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	if r.Mode == "" && r.Text == nil {
		return &ErrorResponse{
			Code:    "empty_update",
			Message: "Either mode or text must be provided",
		}
	}
	if r.Mode != "" && !ValidAnswerModes[r.Mode] {
		return &ErrorResponse{
			Code:    "invalid_mode",
			Message: "Mode must be one of: text, voice, video",
		}
	}
	return nil
}

// UpdateSettingsRequest applies only the fields that are present.
type UpdateSettingsRequest struct {
	AIEnabled     *bool   `json:"aiEnabled"`
	VoiceEnabled  *bool   `json:"voiceEnabled"`
	Difficulty    *string `json:"difficulty"`
	RecordPartial *bool   `json:"recordPartial"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.AIEnabled == nil && r.VoiceEnabled == nil && r.Difficulty == nil && r.RecordPartial == nil {
		return &ErrorResponse{
			Code:    "empty_update",
			Message: "At least one setting must be provided",
		}
	}
	if r.Difficulty != nil {
		d := utils.NormalizeDifficulty(*r.Difficulty)
		if !ValidDifficulties[strings.ToLower(d)] {
			return &ErrorResponse{
				Code:    "invalid_difficulty",
				Message: "Difficulty must be one of: " + strings.Join(ValidDifficultiesList(), ", "),
			}
		}
		r.Difficulty = &d
	}
	return nil
}

// Apply merges the request into existing settings.
func (r *UpdateSettingsRequest) Apply(s UserSettings) UserSettings {
	if r.AIEnabled != nil {
		s.AIEnabled = *r.AIEnabled
	}
	if r.VoiceEnabled != nil {
		s.VoiceEnabled = *r.VoiceEnabled
	}
	if r.Difficulty != nil {
		s.Difficulty = *r.Difficulty
	}
	if r.RecordPartial != nil {
		s.RecordPartial = *r.RecordPartial
	}
	return s
}
