package interview

import (
	"fmt"
	"sort"
	"sync"
)

// FeedbackStrategy turns an answer into feedback text. It stands in for a real
// evaluation backend and must not touch engine state.
type FeedbackStrategy func(answer, question string) string

// Random is the subset of *rand.Rand the engine needs.
type Random interface {
	Intn(n int) int
}

var feedbackPool = []string{
	"Great answer! You demonstrated strong understanding of the concept and explained it clearly.",
	"Good response. Consider adding more specific examples from your experience to strengthen your answer.",
	"Solid answer. You could improve by structuring your response using the STAR method.",
	"Nice explanation! Try to be more concise and focus on the key points.",
	"Excellent! You showed both technical depth and practical application.",
	"Good start. Elaborate more on the trade-offs and alternatives you considered.",
}

// DisabledNotice is returned for every answer when AI features are switched off.
const DisabledNotice = "AI feedback is disabled. Enable AI features in settings to receive feedback on your answers."

// RandomFeedback picks uniformly from a fixed pool.
func RandomFeedback(rng Random) FeedbackStrategy {
	var mu sync.Mutex
	return func(_, _ string) string {
		mu.Lock()
		defer mu.Unlock()
		return feedbackPool[rng.Intn(len(feedbackPool))]
	}
}

func DisabledFeedback(_, _ string) string {
	return DisabledNotice
}

// StrategyFactory builds a strategy from a random source.
type StrategyFactory func(rng Random) FeedbackStrategy

var (
	strategiesMu sync.RWMutex
	strategies   = map[string]StrategyFactory{
		"simulated": RandomFeedback,
		"disabled":  func(Random) FeedbackStrategy { return DisabledFeedback },
	}
)

// RegisterStrategy makes a strategy available by name, replacing any previous one.
func RegisterStrategy(name string, factory StrategyFactory) {
	strategiesMu.Lock()
	defer strategiesMu.Unlock()
	strategies[name] = factory
}

func NewStrategy(name string, rng Random) (FeedbackStrategy, error) {
	strategiesMu.RLock()
	factory, ok := strategies[name]
	strategiesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported feedback strategy: %s", name)
	}
	return factory(rng), nil
}

func StrategyNames() []string {
	strategiesMu.RLock()
	defer strategiesMu.RUnlock()
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectStrategy honours the AI-enabled setting before falling back to the named strategy.
func SelectStrategy(settings SettingsSnapshot, name string, rng Random) (FeedbackStrategy, error) {
	if !settings.AIEnabled {
		return DisabledFeedback, nil
	}
	return NewStrategy(name, rng)
}
