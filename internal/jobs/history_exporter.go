package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// HistorySource lists stored history records newer than a watermark.
type HistorySource interface {
	ListCreatedSince(since time.Time) ([]models.InterviewHistory, error)
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 3 * * *" for 3 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool
}

// HistoryExporterJob periodically writes newly stored interview history to JSONL files.
type HistoryExporterJob struct {
	source HistorySource
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	watermark time.Time
}

func NewHistoryExporterJob(source HistorySource, config *ExporterConfig, logger *zap.Logger) *HistoryExporterJob {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &HistoryExporterJob{
		source: source,
		config: config,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduled export job
func (j *HistoryExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("history export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(); err != nil {
			j.logger.Error("history export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("history exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop waits for a running export to finish.
func (j *HistoryExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunExport writes records stored since the previous run and returns the file
// path, or "" when there was nothing new.
func (j *HistoryExporterJob) RunExport() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	histories, err := j.source.ListCreatedSince(j.watermark)
	if err != nil {
		return "", fmt.Errorf("failed to list history: %w", err)
	}
	if len(histories) == 0 {
		j.logger.Debug("no new history to export")
		return "", nil
	}

	data, err := toJSONL(histories)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := fmt.Sprintf("history_export_%s.jsonl", time.Now().Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	j.watermark = histories[len(histories)-1].CreatedAt
	j.logger.Info("exported interview history",
		zap.Int("records", len(histories)),
		zap.String("file", path))
	return path, nil
}

// one HistoryRecord per line
func toJSONL(histories []models.InterviewHistory) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range histories {
		if err := enc.Encode(histories[i].Record()); err != nil {
			return nil, fmt.Errorf("failed to encode history %s: %w", histories[i].SessionID, err)
		}
	}
	return buf.Bytes(), nil
}
