package interview

import "time"

// Status is the lifecycle state of a session.
type Status string

const (
	StatusNotStarted   Status = "not_started"
	StatusInProgress   Status = "in_progress"
	StatusAwaitingNext Status = "awaiting_next"
	StatusCompleted    Status = "completed"
	StatusEnded        Status = "ended"
)

// terminal states accept no further transitions
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusEnded
}

type AnswerMode string

const (
	ModeText  AnswerMode = "text"
	ModeVoice AnswerMode = "voice"
	ModeVideo AnswerMode = "video"
)

func (m AnswerMode) Valid() bool {
	switch m {
	case ModeText, ModeVoice, ModeVideo:
		return true
	}
	return false
}

const (
	// DefaultQuestionSeconds is the per-question countdown.
	DefaultQuestionSeconds = 120
	// MinAnswerLength applies to manually submitted text answers.
	MinAnswerLength = 10
)

// Answer is the in-progress capture for the active question. Text mode fills Text,
// voice and video modes fill Media.
type Answer struct {
	Mode      AnswerMode `json:"mode"`
	Text      string     `json:"text,omitempty"`
	Media     []byte     `json:"-"`
	MediaType string     `json:"mediaType,omitempty"`
}

// Score is the simulated evaluation of a finished session.
type Score struct {
	Overall        int `json:"overall"`
	Technical      int `json:"technical"`
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problemSolving"`
	CultureFit     int `json:"cultureFit"`
}

// SettingsSnapshot is the read-only view of user settings taken at session start.
type SettingsSnapshot struct {
	AIEnabled      bool   `json:"aiEnabled"`
	VoiceEnabled   bool   `json:"voiceEnabled"`
	MediaAvailable bool   `json:"mediaAvailable"`
	Difficulty     string `json:"difficulty"`
	RecordPartial  bool   `json:"recordPartial"`
}

// DefaultSettings matches a fresh install: AI on, voice off, text-only capture.
func DefaultSettings() SettingsSnapshot {
	return SettingsSnapshot{
		AIEnabled:  true,
		Difficulty: "Intermediate",
	}
}

// HistoryRecord is the immutable summary appended when a session completes.
type HistoryRecord struct {
	SessionID         string    `json:"sessionId"`
	UserID            string    `json:"userId"`
	Timestamp         time.Time `json:"timestamp"`
	Role              string    `json:"role"`
	Difficulty        string    `json:"difficulty"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	TotalQuestions    int       `json:"totalQuestions"`
	Score             Score     `json:"score"`
	Partial           bool      `json:"partial"`
}

// Snapshot is a copy of the session state safe to hand to other goroutines.
type Snapshot struct {
	SessionID        string     `json:"sessionId"`
	Version          uint64     `json:"version"`
	Role             string     `json:"role"`
	Difficulty       string     `json:"difficulty"`
	Status           Status     `json:"status"`
	Questions        []string   `json:"questions"`
	CurrentIndex     int        `json:"currentIndex"`
	CurrentQuestion  string     `json:"currentQuestion,omitempty"`
	CompletedIndices []int      `json:"completedIndices"`
	AnswerMode       AnswerMode `json:"answerMode"`
	PendingText      string     `json:"pendingText,omitempty"`
	HasRecording     bool       `json:"hasRecording"`
	RemainingSeconds int        `json:"remainingSeconds"`
	TimerRunning     bool       `json:"timerRunning"`
	Analyzing        bool       `json:"analyzing"`
	Feedback         string     `json:"feedback,omitempty"`
	Score            *Score     `json:"score,omitempty"`
}
