package service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/insights"
	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/internal/repository"
)

// FoodLogStats is the quick summary shown above the journal.
type FoodLogStats struct {
	TotalLogs        int                            `json:"total_logs"`
	MoodCounts       *insights.Counter[models.Mood] `json:"mood_counts"`
	MostCommonMood   models.Mood                    `json:"most_common_mood,omitempty"`
	AverageMoodScore float64                        `json:"average_mood_score"`
	Period           StatsPeriod                    `json:"period"`
}

// StatsPeriod echoes the requested range; nil bounds were not given.
type StatsPeriod struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type foodLogService struct {
	repo   repository.FoodLogRepository
	scores insights.ScoreTable
	now    func() time.Time
}

// NewFoodLogService creates a new food log service. Stats are scored with
// the engine's table; a nil engine uses the defaults.
func NewFoodLogService(repo repository.FoodLogRepository, engine *insights.Engine) FoodLogService {
	if engine == nil {
		engine = insights.NewEngine()
	}
	return &foodLogService{
		repo:   repo,
		scores: engine.Tables().Scores,
		now:    time.Now,
	}
}

func (s *foodLogService) CreateFoodLog(ctx context.Context, userID string, req *models.CreateFoodLogRequest) (*models.FoodLog, error) {
	log := &models.FoodLog{
		UserID:      userID,
		FoodName:    req.FoodName,
		FoodID:      req.FoodID,
		MealType:    req.MealType,
		Moods:       req.Moods,
		MealTime:    req.MealTime,
		PortionSize: req.PortionSize,
		Notes:       req.Notes,
		ImageURL:    req.ImageURL,
	}
	return s.repo.Create(ctx, log)
}

func (s *foodLogService) GetFoodLog(ctx context.Context, userID, logID string) (*models.FoodLog, error) {
	if err := ValidateID(logID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, logID)
}

func (s *foodLogService) ListFoodLogs(ctx context.Context, userID string, filter models.FoodLogFilter) ([]models.FoodLog, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, userID, filter)
}

func (s *foodLogService) UpdateFoodLog(ctx context.Context, userID, logID string, req *models.UpdateFoodLogRequest) (*models.FoodLog, error) {
	if err := ValidateID(logID); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	return s.repo.Update(ctx, userID, logID, req.Columns())
}

func (s *foodLogService) DeleteFoodLog(ctx context.Context, userID, logID string) error {
	if err := ValidateID(logID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, logID)
}

func (s *foodLogService) GetFoodLogStats(ctx context.Context, userID string, start, end *time.Time) (*FoodLogStats, error) {
	from, to := time.Time{}, s.now().UTC()
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	logs, err := s.repo.GetByUserIDAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	logs = insights.LogsWithMoods(logs)
	counts := insights.MoodCounts(logs)
	mood, _ := insights.MostCommonMood(counts)
	return &FoodLogStats{
		TotalLogs:        len(logs),
		MoodCounts:       counts,
		MostCommonMood:   mood,
		AverageMoodScore: insights.AverageMoodScore(logs, s.scores),
		Period:           StatsPeriod{Start: start, End: end},
	}, nil
}
