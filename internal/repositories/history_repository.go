package repositories

import (
	"context"
	"errors"
	"time"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/models"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("history record not found")

type HistoryRepository struct {
	DB *gorm.DB
}

// Create stores a history record. A record for the same session is only stored once.
func (r *HistoryRepository) Create(history *models.InterviewHistory) error {
	return r.create(r.DB, history)
}

func (r *HistoryRepository) create(db *gorm.DB, history *models.InterviewHistory) error {
	var existing models.InterviewHistory

	err := db.Where("session_id = ?", history.SessionID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err // actual DB error
	}

	return db.Create(history).Error
}

// Record implements interview.HistorySink.
func (r *HistoryRepository) Record(ctx context.Context, rec interview.HistoryRecord) error {
	return r.create(r.DB.WithContext(ctx), models.NewInterviewHistory(rec))
}

// GetByUserID retrieves a user's interview history, most recent first.
func (r *HistoryRepository) GetByUserID(userID string) ([]models.InterviewHistory, error) {
	histories := []models.InterviewHistory{}
	err := r.DB.
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&histories).Error
	return histories, err
}

// GetBySessionID retrieves one record, scoped to its owner.
func (r *HistoryRepository) GetBySessionID(userID, sessionID string) (*models.InterviewHistory, error) {
	var history models.InterviewHistory
	err := r.DB.
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// ListCreatedSince returns records stored after since, oldest first.
func (r *HistoryRepository) ListCreatedSince(since time.Time) ([]models.InterviewHistory, error) {
	histories := []models.InterviewHistory{}
	err := r.DB.
		Where("created_at > ?", since).
		Order("created_at ASC").
		Find(&histories).Error
	return histories, err
}
