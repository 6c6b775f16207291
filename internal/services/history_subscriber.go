package services

import (
	"context"
	"encoding/json"

	"jobprep/interview/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HistoryStore persists history records; creating the same session twice is a no-op.
type HistoryStore interface {
	Create(history *models.InterviewHistory) error
}

type HistorySubscriber struct {
	rdb        *redis.Client
	topic      string
	store      HistoryStore
	instanceID string
	logger     *zap.Logger
	ready      chan struct{}
}

func NewHistorySubscriber(rdb *redis.Client, topic string, store HistoryStore, logger *zap.Logger) *HistorySubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistorySubscriber{
		rdb:        rdb,
		topic:      topic,
		store:      store,
		instanceID: uuid.New().String()[:8], // short instance ID for logging
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed.
func (hs *HistorySubscriber) Ready() <-chan struct{} {
	return hs.ready
}

// Subscribe listens for history events until ctx is cancelled.
func (hs *HistorySubscriber) Subscribe(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	subscriber := hs.rdb.Subscribe(ctx, hs.topic)
	defer subscriber.Close()

	if _, err := subscriber.Receive(ctx); err != nil {
		hs.logger.Error("history subscriber: subscribe failed", zap.String("topic", hs.topic), zap.Error(err))
		return
	}
	close(hs.ready)
	ch := subscriber.Channel()

	hs.logger.Info("history subscriber: subscribed", zap.String("topic", hs.topic), zap.String("instance", hs.instanceID))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			hs.handleEvent(msg.Payload)
		}
	}
}

func (hs *HistorySubscriber) handleEvent(payload string) {
	var event models.HistoryEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		hs.logger.Warn("failed to unmarshal history event", zap.Error(err))
		return
	}
	if event.Record.SessionID == "" || event.Record.UserID == "" {
		hs.logger.Warn("dropping history event without session or user", zap.String("source", event.Source))
		return
	}

	if err := hs.store.Create(models.NewInterviewHistory(event.Record)); err != nil {
		hs.logger.Error("failed to save interview history",
			zap.String("session_id", event.Record.SessionID), zap.Error(err))
		return
	}

	hs.logger.Info("saved interview history",
		zap.String("instance", hs.instanceID),
		zap.String("session_id", event.Record.SessionID),
		zap.String("source", event.Source))
}
