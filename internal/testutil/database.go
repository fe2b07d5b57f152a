// Package testutil holds shared fixtures and assertions for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stockstalk/internal/models"
)

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database and migrates every
// model into it. Settings match database.NewManager.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:stockstalk_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TeardownTestDB closes db. The in-memory database goes away with its last
// connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("teardown: %v", err)
	}
}
