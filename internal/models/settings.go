package models

import "jobprep/interview/internal/interview"

// UserSettings are the persisted per-user preferences read at session start.
type UserSettings struct {
	AIEnabled     bool   `json:"aiEnabled" redis:"ai_enabled"`
	VoiceEnabled  bool   `json:"voiceEnabled" redis:"voice_enabled"`
	Difficulty    string `json:"difficulty" redis:"difficulty"`
	RecordPartial bool   `json:"recordPartial" redis:"record_partial"`
}

func DefaultUserSettings() UserSettings {
	d := interview.DefaultSettings()
	return UserSettings{
		AIEnabled:     d.AIEnabled,
		VoiceEnabled:  d.VoiceEnabled,
		Difficulty:    d.Difficulty,
		RecordPartial: d.RecordPartial,
	}
}

// Snapshot freezes the settings for one session. Media availability is a
// property of the client device, not a stored preference.
func (s UserSettings) Snapshot(mediaAvailable bool) interview.SettingsSnapshot {
	return interview.SettingsSnapshot{
		AIEnabled:      s.AIEnabled,
		VoiceEnabled:   s.VoiceEnabled,
		MediaAvailable: mediaAvailable,
		Difficulty:     s.Difficulty,
		RecordPartial:  s.RecordPartial,
	}
}
