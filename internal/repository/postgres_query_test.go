package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

type capturedStatement struct {
	SQL  string
	Vars []interface{}
}

// dryRunDB opens gorm in dry-run mode and records every statement it builds.
// Nothing reaches a server, so every statement affects zero rows.
func dryRunDB(t *testing.T) (*gorm.DB, *[]capturedStatement) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=foodmood dbname=foodmood sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}

	var captured []capturedStatement
	capture := func(tx *gorm.DB) {
		captured = append(captured, capturedStatement{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]interface{}(nil), tx.Statement.Vars...),
		})
	}
	cb := db.Callback()
	for _, err := range []error{
		cb.Query().After("gorm:query").Register("test:capture_query", capture),
		cb.Update().After("gorm:update").Register("test:capture_update", capture),
		cb.Delete().After("gorm:delete").Register("test:capture_delete", capture),
	} {
		if err != nil {
			t.Fatalf("failed to register capture callback: %v", err)
		}
	}
	return db, &captured
}

func lastStatement(t *testing.T, captured *[]capturedStatement) capturedStatement {
	t.Helper()
	if len(*captured) == 0 {
		t.Fatal("expected a statement to be built")
	}
	return (*captured)[len(*captured)-1]
}

func assertSQLContains(t *testing.T, sql string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(sql, f) {
			t.Errorf("expected SQL to contain %q, got %q", f, sql)
		}
	}
}

func TestPostgresFoodLogRepository_DateRangeScopedAndOrdered(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresFoodLogRepository(db)

	start := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	if _, err := repo.GetByUserIDAndDateRange(context.Background(), "u1", start, end); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL,
		foodLogsTable,
		"WHERE user_id = $1 AND meal_time >= $2 AND meal_time <= $3",
		"ORDER BY meal_time DESC",
	)
	if len(stmt.Vars) != 3 || stmt.Vars[0] != "u1" {
		t.Fatalf("expected vars [u1 start end], got %v", stmt.Vars)
	}
	if got, ok := stmt.Vars[1].(time.Time); !ok || !got.Equal(start) {
		t.Errorf("expected start %v, got %v", start, stmt.Vars[1])
	}
	if got, ok := stmt.Vars[2].(time.Time); !ok || !got.Equal(end) {
		t.Errorf("expected end %v, got %v", end, stmt.Vars[2])
	}
}

func TestPostgresFoodLogRepository_ListFilters(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresFoodLogRepository(db)

	filter := models.FoodLogFilter{Moods: []models.Mood{models.MoodCalm}, FoodName: "50%_tea", Limit: 10}
	if _, err := repo.List(context.Background(), "u1", filter); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL, "user_id = $1", "moods && $2", "food_name ILIKE $3", "ORDER BY meal_time DESC")
	if len(stmt.Vars) < 3 || stmt.Vars[0] != "u1" {
		t.Fatalf("expected owner as first var, got %v", stmt.Vars)
	}
	if stmt.Vars[2] != `%50\%\_tea%` {
		t.Errorf("expected escaped pattern, got %v", stmt.Vars[2])
	}
}

func TestPostgresFoodLogRepository_UpdateScopedToOwner(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresFoodLogRepository(db)

	_, err := repo.Update(context.Background(), "u1", "log-1", map[string]interface{}{"food_name": "Oatmeal"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when no row matches, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL, "UPDATE", foodLogsTable, "AND user_id = $", "RETURNING")
	n := len(stmt.Vars)
	if n < 2 || stmt.Vars[n-2] != "log-1" || stmt.Vars[n-1] != "u1" {
		t.Errorf("expected id and owner as the last vars, got %v", stmt.Vars)
	}
}

func TestPostgresFoodLogRepository_DeleteNotFound(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresFoodLogRepository(db)

	err := repo.Delete(context.Background(), "u1", "log-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL, "DELETE FROM", foodLogsTable, "WHERE id = $1 AND user_id = $2")
	if len(stmt.Vars) != 2 || stmt.Vars[0] != "log-1" || stmt.Vars[1] != "u1" {
		t.Errorf("expected vars [log-1 u1], got %v", stmt.Vars)
	}
}

func TestPostgresInsightRepository_MarkReadConditional(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresInsightRepository(db)

	_, err := repo.MarkRead(context.Background(), "u1", "insight-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when no row matches, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL, "UPDATE", insightsTable, "WHERE id = $2 AND user_id = $3", "RETURNING")
	if len(stmt.Vars) != 3 || stmt.Vars[0] != true || stmt.Vars[1] != "insight-1" || stmt.Vars[2] != "u1" {
		t.Errorf("expected vars [true insight-1 u1], got %v", stmt.Vars)
	}
}

func TestPostgresInsightRepository_DeleteNotFound(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresInsightRepository(db)

	if err := repo.Delete(context.Background(), "u1", "insight-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	assertSQLContains(t, lastStatement(t, captured).SQL, "DELETE FROM", insightsTable, "WHERE id = $1 AND user_id = $2")
}

func TestPostgresInsightRepository_ListScopedToOwner(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewPostgresInsightRepository(db)

	weekly := models.InsightTypeWeekly
	unread := false
	if _, err := repo.List(context.Background(), "u1", models.InsightFilter{Type: &weekly, IsRead: &unread}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stmt := lastStatement(t, captured)
	assertSQLContains(t, stmt.SQL, "user_id = $1", "insight_type = $2", "is_read = $3", "ORDER BY created_at DESC")
	if len(stmt.Vars) < 3 || stmt.Vars[0] != "u1" || stmt.Vars[1] != "weekly" || stmt.Vars[2] != false {
		t.Errorf("unexpected vars %v", stmt.Vars)
	}
}
