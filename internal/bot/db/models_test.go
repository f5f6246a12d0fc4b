package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDBFile := filepath.Join(t.TempDir(), "test_gorm.db")

	gormDB, err := gorm.Open(sqlite.Open(testDBFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = gormDB.AutoMigrate(&Run{}, &Outcome{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func TestRunWithOutcomes(t *testing.T) {
	gormDB := setupTestDB(t)

	run := Run{
		RunID:          "3b241101-e2bb-4255-8caf-4136c566a962",
		StartedAt:      time.Date(2023, time.December, 31, 18, 0, 0, 0, time.UTC),
		ProcessingDate: time.Date(2024, time.January, 1, 18, 0, 0, 0, time.UTC),
		Status:         StatusCompleted,
		SummaryPage:    "Gebruiker:Herhaalbot/Overzicht",
		OutcomeCount:   2,
		Outcomes: []Outcome{
			{Position: 0, Title: "Test Page", Interval: "maandelijks", Page: "[[Test Page]]", Template: "{{tl|X}}", Action: "created"},
			{Position: 1, Title: "Wikipedia:Samenvoegen", Interval: "maandelijks", Page: "[[Wikipedia:Samenvoegen]]", Action: "amended"},
		},
	}
	result := gormDB.Create(&run)
	require.NoError(t, result.Error)
	assert.NotZero(t, run.ID)

	var fetched Run
	result = gormDB.Preload("Outcomes", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&fetched, "run_id = ?", run.RunID)
	require.NoError(t, result.Error)
	assert.Equal(t, StatusCompleted, fetched.Status)
	require.Len(t, fetched.Outcomes, 2)
	assert.Equal(t, "Test Page", fetched.Outcomes[0].Title)
	assert.Equal(t, run.ID, fetched.Outcomes[1].RunID)
}

func TestRunIDIsUnique(t *testing.T) {
	gormDB := setupTestDB(t)

	require.NoError(t, gormDB.Create(&Run{RunID: "same", Status: StatusCompleted}).Error)
	err := gormDB.Create(&Run{RunID: "same", Status: StatusCompleted}).Error
	assert.Error(t, err)
}
