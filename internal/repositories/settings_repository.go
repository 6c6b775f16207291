package repositories

import (
	"context"
	"fmt"
	"strconv"

	"jobprep/interview/internal/models"

	"github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "settings:"

// SettingsRepository keeps per-user settings in a Redis hash.
type SettingsRepository struct {
	Client *redis.Client
}

func settingsKey(userID string) string {
	return settingsKeyPrefix + userID
}

// Get returns the stored settings, filling missing fields with defaults.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (models.UserSettings, error) {
	settings := models.DefaultUserSettings()
	res := r.Client.HGetAll(ctx, settingsKey(userID))
	if err := res.Err(); err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	if len(res.Val()) == 0 {
		return settings, nil
	}
	if err := res.Scan(&settings); err != nil {
		return models.DefaultUserSettings(), fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, userID string, s models.UserSettings) error {
	err := r.Client.HSet(ctx, settingsKey(userID), map[string]interface{}{
		"ai_enabled":     strconv.FormatBool(s.AIEnabled),
		"voice_enabled":  strconv.FormatBool(s.VoiceEnabled),
		"difficulty":     s.Difficulty,
		"record_partial": strconv.FormatBool(s.RecordPartial),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
