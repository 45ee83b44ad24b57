package handlers

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tutordesk/internal/models"
)

func newClassTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.ClassSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func classRow(id string, dayOfWeek int, startTime string) models.ClassSession {
	return models.ClassSession{
		ID:          id,
		Title:       "Maths",
		TeacherID:   "teacher-1",
		DayOfWeek:   dayOfWeek,
		StartTime:   startTime,
		DurationMin: 60,
		StartDate:   time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
	}
}

func TestReplaceRowsReusesIDs(t *testing.T) {
	db := newClassTestDB(t)
	h := NewClassHandler(db, nil)

	initial := []models.ClassSession{
		classRow("abc123", 1, "10:00"),
		classRow("abc123-1", 3, "10:00"),
	}
	if err := db.Create(&initial).Error; err != nil {
		t.Fatalf("create initial rows: %v", err)
	}

	// The replacement reuses the ids of the rows it replaces. Rows have a
	// soft-delete column, so a plain delete would keep holding the primary
	// keys and the re-create would hit a unique-constraint violation.
	replacement := []models.ClassSession{classRow("abc123", 2, "11:00")}
	if err := h.replaceRows("abc123", replacement); err != nil {
		t.Fatalf("replaceRows: %v", err)
	}

	rows, err := h.classRows("abc123")
	if err != nil {
		t.Fatalf("classRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows after replace; want 1", len(rows))
	}
	if rows[0].DayOfWeek != 2 || rows[0].StartTime != "11:00" {
		t.Errorf("replaced row = day %d at %s; want day 2 at 11:00", rows[0].DayOfWeek, rows[0].StartTime)
	}

	// A second replace against the same base id must also succeed, growing
	// the class back to two slots.
	expanded := []models.ClassSession{
		classRow("abc123", 1, "09:00"),
		classRow("abc123-1", 4, "09:00"),
	}
	if err := h.replaceRows("abc123", expanded); err != nil {
		t.Fatalf("second replaceRows: %v", err)
	}
	rows, err = h.classRows("abc123")
	if err != nil {
		t.Fatalf("classRows after second replace: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows after second replace; want 2", len(rows))
	}
}

func TestReplaceRowsLeavesOtherClassesAlone(t *testing.T) {
	db := newClassTestDB(t)
	h := NewClassHandler(db, nil)

	if err := db.Create(&[]models.ClassSession{
		classRow("abc123", 1, "10:00"),
		classRow("def456", 2, "12:00"),
	}).Error; err != nil {
		t.Fatalf("create rows: %v", err)
	}

	if err := h.replaceRows("abc123", []models.ClassSession{classRow("abc123", 5, "08:00")}); err != nil {
		t.Fatalf("replaceRows: %v", err)
	}

	other, err := h.classRows("def456")
	if err != nil {
		t.Fatalf("classRows(def456): %v", err)
	}
	if len(other) != 1 || other[0].DayOfWeek != 2 {
		t.Errorf("unrelated class rows = %+v; want untouched", other)
	}
}
