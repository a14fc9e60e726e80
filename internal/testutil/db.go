package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/spigell/resume-coach/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database and migrates every table.
// A single connection keeps all callers on the same in-memory database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
