package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/seeya29/SmartBrief/internal/summary/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) SummaryRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.SummaryRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSummaryRepository(db)
}

func testRecord(summaryID, userID string, generatedAt time.Time) *domain.SummaryRecord {
	return &domain.SummaryRecord{
		SummaryID:     summaryID,
		UserID:        userID,
		Platform:      "whatsapp",
		MessageID:     "m-" + summaryID,
		Summary:       "User shares information.",
		Type:          "message",
		Intent:        "informational",
		Urgency:       domain.UrgencyLow,
		Entities:      []byte(`{"person":[],"datetime":null}`),
		ContextFlags:  []byte(`[]`),
		GeneratedAt:   generatedAt,
		DeviceContext: domain.DeviceUnknown,
	}
}

func TestUpsertInsertThenReplace(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Date(2025, 11, 20, 14, 0, 0, 0, time.UTC)

	rec := testRecord("id-1", "u1", now)
	if err := repo.Upsert(rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	updated := testRecord("id-1", "u1", now.Add(time.Minute))
	updated.Summary = "User asks a question."
	updated.Type = "question"
	if err := repo.Upsert(updated); err != nil {
		t.Fatalf("Upsert() second write error = %v", err)
	}

	got, err := repo.GetByID("id-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Summary != "User asks a question." || got.Type != "question" {
		t.Errorf("record not replaced: summary=%q type=%q", got.Summary, got.Type)
	}

	// Replace semantics must not leave a second row behind.
	rows, err := repo.ListRecent("u1", "whatsapp", 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row after double upsert, got %d", len(rows))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.GetByID("missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestListRecentOrderAndLimit(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		rec := testRecord(id, "u1", base.Add(time.Duration(i)*time.Hour))
		if err := repo.Upsert(rec); err != nil {
			t.Fatalf("Upsert(%s) error = %v", id, err)
		}
	}
	// Different user and platform must not leak into the window.
	if err := repo.Upsert(testRecord("other-user", "u2", base.Add(5*time.Hour))); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	email := testRecord("other-platform", "u1", base.Add(5*time.Hour))
	email.Platform = "email"
	if err := repo.Upsert(email); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rows, err := repo.ListRecent("u1", "whatsapp", 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListRecent() returned %d rows, want 2", len(rows))
	}
	if rows[0].SummaryID != "new" || rows[1].SummaryID != "mid" {
		t.Errorf("ListRecent() order = [%s, %s], want [new, mid]", rows[0].SummaryID, rows[1].SummaryID)
	}
}

func TestListRecentEmpty(t *testing.T) {
	repo := newTestRepository(t)
	rows, err := repo.ListRecent("nobody", "whatsapp", 3)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ListRecent() returned %d rows, want 0", len(rows))
	}
}
