package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the id and owner
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps failures to reach the backing store
	ErrUnavailable = errors.New("store unavailable")
)

// FoodLogRepository defines the interface for food log data access.
// Every method is scoped to the owning user.
type FoodLogRepository interface {
	Create(ctx context.Context, log *models.FoodLog) (*models.FoodLog, error)
	GetByID(ctx context.Context, userID, id string) (*models.FoodLog, error)
	List(ctx context.Context, userID string, filter models.FoodLogFilter) ([]models.FoodLog, error)
	// GetByUserIDAndDateRange returns logs with meal_time in [start, end],
	// newest first.
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.FoodLog, error)
	Update(ctx context.Context, userID, id string, columns map[string]interface{}) (*models.FoodLog, error)
	Delete(ctx context.Context, userID, id string) error
}

// InsightRepository defines the interface for insight data access
type InsightRepository interface {
	// Create stores a new insight and returns it with id and created_at set.
	Create(ctx context.Context, insight *models.Insight) (*models.Insight, error)
	GetByID(ctx context.Context, userID, id string) (*models.Insight, error)
	List(ctx context.Context, userID string, filter models.InsightFilter) ([]models.Insight, error)
	// MarkRead sets is_read in one conditional write on (id, user_id).
	MarkRead(ctx context.Context, userID, id string) (*models.Insight, error)
	Delete(ctx context.Context, userID, id string) error
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// clampLimit applies the listing defaults shared by both stores.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
