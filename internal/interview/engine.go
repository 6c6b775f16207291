package interview

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// QuestionSource resolves the ordered question list for a role.
type QuestionSource interface {
	Questions(role, difficulty string) []string
}

type Options struct {
	SessionID string
	UserID    string
	Questions QuestionSource
	Feedback  FeedbackStrategy
	Random    Random
	Clock     Clock
	History   HistorySink
	Settings  SettingsSnapshot
	Logger    *zap.Logger

	// QuestionSeconds defaults to, and is capped at, DefaultQuestionSeconds.
	QuestionSeconds int
	// AnalysisDelay simulates evaluation latency before feedback appears. Zero means immediate.
	AnalysisDelay time.Duration
	// OnChange is called after every state change, outside the engine lock. Calls
	// are serialized and never go back to an older state. It must not block.
	OnChange func(Snapshot)
}

// Engine drives one mock interview session. All methods are safe for concurrent use;
// countdown ticks arrive on their own goroutine.
type Engine struct {
	mu   sync.Mutex
	opts Options
	log  *zap.Logger

	role       string
	difficulty string
	questions  []string
	current    int
	completed  map[int]struct{}
	answer     Answer
	remaining  int
	status     Status
	feedback   string
	score      *Score

	timerRunning bool
	timerGen     uint64
	stopCh       chan struct{}

	analyzing       bool
	analysisGen     uint64
	analysisTimer   Timer
	pendingFeedback string

	// version counts state changes; notified is the last version handed to OnChange
	version  uint64
	notifyMu sync.Mutex
	notified uint64
}

func NewEngine(opts Options) *Engine {
	if opts.QuestionSeconds <= 0 || opts.QuestionSeconds > DefaultQuestionSeconds {
		opts.QuestionSeconds = DefaultQuestionSeconds
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Random == nil {
		opts.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Feedback == nil {
		if opts.Settings.AIEnabled {
			opts.Feedback = RandomFeedback(opts.Random)
		} else {
			opts.Feedback = DisabledFeedback
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		opts:       opts,
		log:        opts.Logger.With(zap.String("session_id", opts.SessionID)),
		difficulty: opts.Settings.Difficulty,
		completed:  make(map[int]struct{}),
		answer:     Answer{Mode: ModeText},
		remaining:  opts.QuestionSeconds,
		status:     StatusNotStarted,
	}
}

func (e *Engine) ID() string     { return e.opts.SessionID }
func (e *Engine) UserID() string { return e.opts.UserID }

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// apply runs a transition under the lock, then records history and notifies
// the observer once the lock is released.
func (e *Engine) apply(op func() (*HistoryRecord, error)) error {
	e.mu.Lock()
	rec, err := op()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.version++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if rec != nil {
		e.record(*rec)
	}
	e.notify(snap)
	return nil
}

// Configure sets role and difficulty. It is a no-op once the session has started.
func (e *Engine) Configure(role, difficulty string) error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusNotStarted {
			return nil, nil
		}
		e.role = strings.TrimSpace(role)
		if d := strings.TrimSpace(difficulty); d != "" {
			e.difficulty = d
		}
		return nil, nil
	})
}

func (e *Engine) Start() error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusNotStarted {
			return nil, invalidState("start", e.status)
		}
		if e.role == "" {
			return nil, validation("role required")
		}
		questions := e.opts.Questions.Questions(e.role, e.difficulty)
		if len(questions) == 0 {
			return nil, validation("no questions available for role")
		}
		e.questions = append([]string(nil), questions...)
		e.current = 0
		e.remaining = e.opts.QuestionSeconds
		e.completed = make(map[int]struct{})
		e.answer = Answer{Mode: e.answer.Mode}
		e.feedback = ""
		e.timerRunning = false
		e.status = StatusInProgress
		e.log.Info("interview started",
			zap.String("role", e.role),
			zap.String("difficulty", e.difficulty),
			zap.Int("questions", len(e.questions)))
		return nil, nil
	})
}

// BeginAnswering starts the countdown for the current question. Calling it while
// the countdown is already running has no effect.
func (e *Engine) BeginAnswering() error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusInProgress {
			return nil, invalidState("begin answering", e.status)
		}
		if e.timerRunning {
			return nil, nil
		}
		e.startTimerLocked()
		return nil, nil
	})
}

// Tick advances the countdown by one second. The system clock calls it once per
// second while answering; it does nothing when no countdown is running.
func (e *Engine) Tick() {
	e.mu.Lock()
	gen := e.timerGen
	e.mu.Unlock()
	e.tick(gen)
}

func (e *Engine) tick(gen uint64) bool {
	e.mu.Lock()
	if !e.timerRunning || gen != e.timerGen || e.status != StatusInProgress {
		e.mu.Unlock()
		return false
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.log.Info("answer time expired, submitting", zap.Int("question", e.current))
		e.submitLocked()
	}
	running := e.timerRunning
	e.version++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return running
}

// SubmitAnswer submits the pending answer for the current question.
func (e *Engine) SubmitAnswer() error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusInProgress {
			return nil, invalidState("submit answer", e.status)
		}
		if err := e.validateAnswerLocked(); err != nil {
			return nil, err
		}
		e.submitLocked()
		return nil, nil
	})
}

func (e *Engine) validateAnswerLocked() error {
	switch e.answer.Mode {
	case ModeVoice, ModeVideo:
		if len(e.answer.Media) == 0 {
			return validation("recording required")
		}
	default:
		if utf8.RuneCountInString(strings.TrimSpace(e.answer.Text)) < MinAnswerLength {
			return validation("answer too short")
		}
	}
	return nil
}

// submitLocked is shared by manual and forced submission and skips validation.
func (e *Engine) submitLocked() {
	e.stopTimerLocked()
	e.completed[e.current] = struct{}{}
	e.status = StatusAwaitingNext

	fb := e.opts.Feedback(e.answer.Text, e.questions[e.current])
	if e.opts.AnalysisDelay <= 0 {
		e.feedback = fb
		return
	}

	e.analyzing = true
	e.pendingFeedback = fb
	e.analysisGen++
	gen := e.analysisGen
	e.analysisTimer = e.opts.Clock.AfterFunc(e.opts.AnalysisDelay, func() {
		e.finishAnalysis(gen)
	})
}

func (e *Engine) finishAnalysis(gen uint64) {
	e.mu.Lock()
	if !e.analyzing || gen != e.analysisGen || e.status != StatusAwaitingNext {
		e.mu.Unlock()
		return
	}
	e.analyzing = false
	e.feedback = e.pendingFeedback
	e.pendingFeedback = ""
	e.analysisTimer = nil
	e.version++
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
}

// Advance moves past the feedback of the current question, completing the
// session after the last one.
func (e *Engine) Advance() error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusAwaitingNext {
			return nil, invalidState("advance", e.status)
		}
		if e.current == len(e.questions)-1 {
			rec := e.completeLocked()
			return &rec, nil
		}
		e.moveNextLocked()
		return nil, nil
	})
}

// Skip moves to the next question without crediting the current one. Skipping the
// last question completes the session if anything was answered and ends it otherwise.
func (e *Engine) Skip() error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusInProgress {
			return nil, invalidState("skip", e.status)
		}
		e.stopTimerLocked()
		if e.current < len(e.questions)-1 {
			e.moveNextLocked()
			return nil, nil
		}
		if len(e.completed) > 0 {
			rec := e.completeLocked()
			return &rec, nil
		}
		e.endLocked()
		return nil, nil
	})
}

// End terminates the session early. Only when the partial-recording setting is on
// and something was answered does it produce a history record.
func (e *Engine) End() error {
	return e.apply(func() (*HistoryRecord, error) {
		switch e.status {
		case StatusEnded:
			return nil, nil
		case StatusCompleted:
			return nil, invalidState("end", e.status)
		}
		started := e.status != StatusNotStarted
		e.endLocked()
		if started && e.opts.Settings.RecordPartial && len(e.completed) > 0 {
			rec := e.buildRecordLocked(true)
			return &rec, nil
		}
		return nil, nil
	})
}

func (e *Engine) endLocked() {
	e.stopTimerLocked()
	e.cancelAnalysisLocked()
	e.feedback = ""
	e.answer = Answer{Mode: e.answer.Mode}
	e.status = StatusEnded
	e.log.Info("interview ended early", zap.Int("answered", len(e.completed)))
}

func (e *Engine) moveNextLocked() {
	e.cancelAnalysisLocked()
	e.current++
	e.remaining = e.opts.QuestionSeconds
	e.answer = Answer{Mode: e.answer.Mode}
	e.feedback = ""
	e.status = StatusInProgress
}

// completeLocked finishes the session. Questions skipped along the way make the
// record partial.
func (e *Engine) completeLocked() HistoryRecord {
	e.stopTimerLocked()
	e.cancelAnalysisLocked()
	e.feedback = ""
	e.answer = Answer{Mode: e.answer.Mode}
	e.status = StatusCompleted
	rec := e.buildRecordLocked(len(e.completed) < len(e.questions))
	e.log.Info("interview completed",
		zap.Int("answered", rec.QuestionsAnswered),
		zap.Int("total", rec.TotalQuestions),
		zap.Int("score", rec.Score.Overall))
	return rec
}

func (e *Engine) buildRecordLocked(partial bool) HistoryRecord {
	score := ComputeScore(len(e.completed), len(e.questions), e.opts.Random)
	e.score = &score
	return HistoryRecord{
		SessionID:         e.opts.SessionID,
		UserID:            e.opts.UserID,
		Timestamp:         e.opts.Clock.Now(),
		Role:              e.role,
		Difficulty:        e.difficulty,
		QuestionsAnswered: len(e.completed),
		TotalQuestions:    len(e.questions),
		Score:             score,
		Partial:           partial,
	}
}

// SetAnswerMode switches the capture mode, discarding anything captured so far.
func (e *Engine) SetAnswerMode(mode AnswerMode) error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusNotStarted && e.status != StatusInProgress {
			return nil, invalidState("set answer mode", e.status)
		}
		if !mode.Valid() {
			return nil, validation("unsupported answer mode")
		}
		if mode == ModeVoice && !e.opts.Settings.VoiceEnabled {
			return nil, validation("voice mode disabled")
		}
		if mode != ModeText && !e.opts.Settings.MediaAvailable {
			return nil, &ValidationError{Message: "media capture unavailable", Err: ErrMediaUnavailable}
		}
		if mode != e.answer.Mode {
			e.answer = Answer{Mode: mode}
		}
		return nil, nil
	})
}

// UpdateText replaces the pending text answer.
func (e *Engine) UpdateText(text string) error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusInProgress {
			return nil, invalidState("update answer", e.status)
		}
		if e.answer.Mode != ModeText {
			return nil, validation("text input requires text mode")
		}
		e.answer.Text = text
		return nil, nil
	})
}

// AttachRecording stores a captured voice or video answer.
func (e *Engine) AttachRecording(media []byte, mediaType string) error {
	return e.apply(func() (*HistoryRecord, error) {
		if e.status != StatusInProgress {
			return nil, invalidState("attach recording", e.status)
		}
		if e.answer.Mode == ModeText {
			return nil, validation("recording requires voice or video mode")
		}
		if !e.opts.Settings.MediaAvailable {
			return nil, &ValidationError{Message: "media capture unavailable", Err: ErrMediaUnavailable}
		}
		if len(media) == 0 {
			return nil, validation("recording required")
		}
		e.answer.Media = append([]byte(nil), media...)
		e.answer.MediaType = mediaType
		return nil, nil
	})
}

// MediaUnavailable reports a capture failure such as a denied camera permission.
// The session falls back to text mode and keeps running.
func (e *Engine) MediaUnavailable() {
	_ = e.apply(func() (*HistoryRecord, error) {
		e.opts.Settings.MediaAvailable = false
		if e.answer.Mode != ModeText && !e.status.terminal() {
			e.answer = Answer{Mode: ModeText}
		}
		return nil, nil
	})
}

func (e *Engine) startTimerLocked() {
	e.timerGen++
	e.timerRunning = true
	stop := make(chan struct{})
	e.stopCh = stop
	go e.runCountdown(e.timerGen, e.opts.Clock.NewTicker(time.Second), stop)
}

func (e *Engine) runCountdown(gen uint64, t Ticker, stop <-chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			if !e.tick(gen) {
				return
			}
		}
	}
}

func (e *Engine) stopTimerLocked() {
	if e.stopCh != nil {
		close(e.stopCh)
		e.stopCh = nil
	}
	if e.timerRunning {
		e.timerGen++
	}
	e.timerRunning = false
}

func (e *Engine) cancelAnalysisLocked() {
	if e.analysisTimer != nil {
		e.analysisTimer.Stop()
		e.analysisTimer = nil
	}
	e.analysisGen++
	e.analyzing = false
	e.pendingFeedback = ""
}

func (e *Engine) snapshotLocked() Snapshot {
	completed := make([]int, 0, len(e.completed))
	for i := range e.completed {
		completed = append(completed, i)
	}
	sort.Ints(completed)

	snap := Snapshot{
		SessionID:        e.opts.SessionID,
		Version:          e.version,
		Role:             e.role,
		Difficulty:       e.difficulty,
		Status:           e.status,
		Questions:        append([]string(nil), e.questions...),
		CurrentIndex:     e.current,
		CompletedIndices: completed,
		AnswerMode:       e.answer.Mode,
		PendingText:      e.answer.Text,
		HasRecording:     len(e.answer.Media) > 0,
		RemainingSeconds: e.remaining,
		TimerRunning:     e.timerRunning,
		Analyzing:        e.analyzing,
		Feedback:         e.feedback,
	}
	if e.current < len(e.questions) {
		snap.CurrentQuestion = e.questions[e.current]
	}
	if e.score != nil {
		s := *e.score
		snap.Score = &s
	}
	return snap
}

func (e *Engine) record(rec HistoryRecord) {
	if e.opts.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.opts.History.Record(ctx, rec); err != nil {
		e.log.Error("failed to record interview history", zap.Error(err))
	}
}

// notify hands snapshots to OnChange in version order. A snapshot overtaken by a
// newer delivery is dropped.
func (e *Engine) notify(snap Snapshot) {
	if e.opts.OnChange == nil {
		return
	}
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	if snap.Version <= e.notified {
		return
	}
	e.notified = snap.Version
	e.opts.OnChange(snap)
}
