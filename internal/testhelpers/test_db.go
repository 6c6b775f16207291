// Package testhelpers opens throwaway databases for repository and handler tests.
package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"

	"jobprep/interview/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the history schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.InterviewHistory{}); err != nil {
		t.Fatalf("migrate history: %v", err)
	}
	return db
}

// DropHistoryTable removes the history table so later queries fail.
func DropHistoryTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Migrator().DropTable(&models.InterviewHistory{}); err != nil {
		t.Fatalf("drop history table: %v", err)
	}
}
