package models

import (
	"time"

	"jobprep/interview/internal/interview"

	"gorm.io/gorm"
)

// InterviewHistory represents a finished mock interview session.
type InterviewHistory struct {
	gorm.Model
	SessionID           string    `gorm:"not null;uniqueIndex" json:"sessionId"`
	UserID              string    `gorm:"not null;index" json:"userId"`
	Role                string    `json:"role"`
	Difficulty          string    `json:"difficulty"`
	QuestionsAnswered   int       `json:"questionsAnswered"`
	TotalQuestions      int       `json:"totalQuestions"`
	OverallScore        int       `json:"overallScore"`
	TechnicalScore      int       `json:"technicalScore"`
	CommunicationScore  int       `json:"communicationScore"`
	ProblemSolvingScore int       `json:"problemSolvingScore"`
	CultureFitScore     int       `json:"cultureFitScore"`
	Partial             bool      `gorm:"default:false" json:"partial"`
	CompletedAt         time.Time `gorm:"index" json:"completedAt"`
}

func NewInterviewHistory(rec interview.HistoryRecord) *InterviewHistory {
	return &InterviewHistory{
		SessionID:           rec.SessionID,
		UserID:              rec.UserID,
		Role:                rec.Role,
		Difficulty:          rec.Difficulty,
		QuestionsAnswered:   rec.QuestionsAnswered,
		TotalQuestions:      rec.TotalQuestions,
		OverallScore:        rec.Score.Overall,
		TechnicalScore:      rec.Score.Technical,
		CommunicationScore:  rec.Score.Communication,
		ProblemSolvingScore: rec.Score.ProblemSolving,
		CultureFitScore:     rec.Score.CultureFit,
		Partial:             rec.Partial,
		CompletedAt:         rec.Timestamp,
	}
}

func (h *InterviewHistory) Record() interview.HistoryRecord {
	return interview.HistoryRecord{
		SessionID:         h.SessionID,
		UserID:            h.UserID,
		Timestamp:         h.CompletedAt,
		Role:              h.Role,
		Difficulty:        h.Difficulty,
		QuestionsAnswered: h.QuestionsAnswered,
		TotalQuestions:    h.TotalQuestions,
		Score: interview.Score{
			Overall:        h.OverallScore,
			Technical:      h.TechnicalScore,
			Communication:  h.CommunicationScore,
			ProblemSolving: h.ProblemSolvingScore,
			CultureFit:     h.CultureFitScore,
		},
		Partial: h.Partial,
	}
}
