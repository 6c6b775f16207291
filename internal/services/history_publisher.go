package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/metrics"
	"jobprep/interview/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// HistoryPublisher is the engine's history sink. Records are published on a Redis
// channel for the subscriber (and any other consumer) to persist. When publishing
// fails or the breaker is open, the record is written to the fallback sink directly.
type HistoryPublisher struct {
	rdb        *redis.Client
	topic      string
	fallback   interview.HistorySink
	breaker    *gobreaker.CircuitBreaker[int64]
	instanceID string
	logger     *zap.Logger
}

type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func NewHistoryPublisher(rdb *redis.Client, topic string, fallback interview.HistorySink, bs BreakerSettings, logger *zap.Logger) *HistoryPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &HistoryPublisher{
		rdb:        rdb,
		topic:      topic,
		fallback:   fallback,
		instanceID: uuid.New().String()[:8], // short instance ID for logging
		logger:     logger,
	}

	settings := gobreaker.Settings{
		Name:        "history-publish",
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= bs.MinRequests && failureRatio >= bs.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	p.breaker = gobreaker.NewCircuitBreaker[int64](settings)
	return p
}

// Record implements interview.HistorySink.
func (p *HistoryPublisher) Record(ctx context.Context, rec interview.HistoryRecord) error {
	payload, err := json.Marshal(models.HistoryEvent{Source: p.instanceID, Record: rec})
	if err != nil {
		return fmt.Errorf("failed to encode history event: %w", err)
	}

	receivers, err := p.breaker.Execute(func() (int64, error) {
		return p.rdb.Publish(ctx, p.topic, payload).Result()
	})
	if err == nil && receivers > 0 {
		metrics.HistoryEvent("publish", "ok")
		return nil
	}

	if err != nil {
		metrics.HistoryEvent("publish", "error")
		p.logger.Warn("history publish failed, writing directly",
			zap.String("session_id", rec.SessionID), zap.Error(err))
	} else {
		// nobody listening; the record would be lost
		metrics.HistoryEvent("publish", "no_subscribers")
	}

	if p.fallback == nil {
		if err != nil {
			return fmt.Errorf("failed to publish history event: %w", err)
		}
		return nil
	}
	if ferr := p.fallback.Record(ctx, rec); ferr != nil {
		metrics.HistoryEvent("fallback", "error")
		return fmt.Errorf("failed to store history record: %w", ferr)
	}
	metrics.HistoryEvent("fallback", "ok")
	return nil
}

// State reports the breaker state for readiness output.
func (p *HistoryPublisher) State() string {
	return p.breaker.State().String()
}
