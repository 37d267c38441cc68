package service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

// InsightService generates and manages a user's insights
type InsightService interface {
	// GenerateWeekly summarises the last 7 days. Needs at least 3 logs.
	GenerateWeekly(ctx context.Context, userID string) (*models.GenerationResult, error)
	// GenerateMonthly summarises the last calendar month. Needs at least 10 logs.
	GenerateMonthly(ctx context.Context, userID string) (*models.GenerationResult, error)
	// GeneratePatterns reports food-mood patterns over the last 30 days.
	GeneratePatterns(ctx context.Context, userID string) (*models.GenerationResult, error)
	// Generate dispatches on insight type (weekly, monthly or pattern).
	Generate(ctx context.Context, userID string, insightType models.InsightType) (*models.GenerationResult, error)

	GetInsights(ctx context.Context, userID string, filter models.InsightFilter) ([]models.Insight, error)
	GetInsight(ctx context.Context, userID, insightID string) (*models.Insight, error)
	MarkInsightRead(ctx context.Context, userID, insightID string) (*models.Insight, error)
	DeleteInsight(ctx context.Context, userID, insightID string) error
}

// FoodLogService defines the interface for food log business logic
type FoodLogService interface {
	CreateFoodLog(ctx context.Context, userID string, req *models.CreateFoodLogRequest) (*models.FoodLog, error)
	GetFoodLog(ctx context.Context, userID, logID string) (*models.FoodLog, error)
	ListFoodLogs(ctx context.Context, userID string, filter models.FoodLogFilter) ([]models.FoodLog, error)
	UpdateFoodLog(ctx context.Context, userID, logID string, req *models.UpdateFoodLogRequest) (*models.FoodLog, error)
	DeleteFoodLog(ctx context.Context, userID, logID string) error
	// GetFoodLogStats summarises logs with meal_time in the optional range.
	GetFoodLogStats(ctx context.Context, userID string, start, end *time.Time) (*FoodLogStats, error)
}
