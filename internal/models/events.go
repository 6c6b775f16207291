package models

import "jobprep/interview/internal/interview"

// HistoryEvent is published on the history topic when a session produces a record.
type HistoryEvent struct {
	Source string                  `json:"source"`
	Record interview.HistoryRecord `json:"record"`
}
