package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JonnyWalker81/foodmood/backend/internal/insights"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/internal/repository"
)

// GenerationState is a step of a single insight generation run.
type GenerationState string

const (
	StateIdle        GenerationState = "idle"
	StateFetching    GenerationState = "fetching"
	StateAggregating GenerationState = "aggregating"
	StatePersisting  GenerationState = "persisting"
	StateDone        GenerationState = "done"
	StateFailed      GenerationState = "failed"
)

// Minimum logs in the window before an insight is generated.
const (
	MinWeeklyLogs  = 3
	MinMonthlyLogs = 10
	MinPatternLogs = 10
)

// PatternWindowDays is how far back pattern generation looks.
const PatternWindowDays = 30

type generationKind struct {
	insightType models.InsightType
	minLogs     int
	notEnough   string
	generated   string
	windowStart func(end time.Time) time.Time
	build       func(e *insights.Engine, logs []models.FoodLog, start time.Time) (insights.Report, insights.Narrative)
}

var (
	weeklyKind = generationKind{
		insightType: models.InsightTypeWeekly,
		minLogs:     MinWeeklyLogs,
		notEnough:   "Not enough data for weekly insights. Log at least 3 meals this week.",
		generated:   "Weekly insights generated successfully",
		windowStart: func(end time.Time) time.Time { return end.AddDate(0, 0, -insights.WeeklyWindowDays) },
		build: func(e *insights.Engine, logs []models.FoodLog, start time.Time) (insights.Report, insights.Narrative) {
			return e.Weekly(logs, start)
		},
	}
	monthlyKind = generationKind{
		insightType: models.InsightTypeMonthly,
		minLogs:     MinMonthlyLogs,
		notEnough:   "Not enough data for monthly insights. Log at least 10 meals this month.",
		generated:   "Monthly insights generated successfully",
		windowStart: func(end time.Time) time.Time { return end.AddDate(0, -1, 0) },
		build: func(e *insights.Engine, logs []models.FoodLog, start time.Time) (insights.Report, insights.Narrative) {
			return e.Monthly(logs, start)
		},
	}
	patternKind = generationKind{
		insightType: models.InsightTypePattern,
		minLogs:     MinPatternLogs,
		notEnough:   "Not enough data for pattern insights. Log at least 10 meals in the last 30 days.",
		generated:   "Pattern insights generated successfully",
		windowStart: func(end time.Time) time.Time { return end.AddDate(0, 0, -PatternWindowDays) },
		build: func(e *insights.Engine, logs []models.FoodLog, _ time.Time) (insights.Report, insights.Narrative) {
			return e.Patterns(logs)
		},
	}
)

type insightService struct {
	logRepo     repository.FoodLogRepository
	insightRepo repository.InsightRepository
	engine      *insights.Engine
	now         func() time.Time
	tracer      trace.Tracer
}

// InsightServiceOption configures NewInsightService.
type InsightServiceOption func(*insightService)

// WithClock overrides time.Now, used to anchor generation windows.
func WithClock(now func() time.Time) InsightServiceOption {
	return func(s *insightService) {
		s.now = now
	}
}

// NewInsightService creates a new insight service. A nil engine uses the
// default tables.
func NewInsightService(logRepo repository.FoodLogRepository, insightRepo repository.InsightRepository, engine *insights.Engine, opts ...InsightServiceOption) InsightService {
	if engine == nil {
		engine = insights.NewEngine()
	}
	s := &insightService{
		logRepo:     logRepo,
		insightRepo: insightRepo,
		engine:      engine,
		now:         time.Now,
		tracer:      otel.Tracer("foodmood-api/insights"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *insightService) GenerateWeekly(ctx context.Context, userID string) (*models.GenerationResult, error) {
	return s.generate(ctx, userID, weeklyKind)
}

func (s *insightService) GenerateMonthly(ctx context.Context, userID string) (*models.GenerationResult, error) {
	return s.generate(ctx, userID, monthlyKind)
}

func (s *insightService) GeneratePatterns(ctx context.Context, userID string) (*models.GenerationResult, error) {
	return s.generate(ctx, userID, patternKind)
}

func (s *insightService) Generate(ctx context.Context, userID string, insightType models.InsightType) (*models.GenerationResult, error) {
	switch insightType {
	case models.InsightTypeWeekly:
		return s.GenerateWeekly(ctx, userID)
	case models.InsightTypeMonthly:
		return s.GenerateMonthly(ctx, userID)
	case models.InsightTypePattern:
		return s.GeneratePatterns(ctx, userID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInsightType, insightType)
	}
}

// run tracks the state of one generation and logs each transition.
type run struct {
	state GenerationState
	log   logger.Logger
	span  trace.Span
}

func (r *run) to(next GenerationState) {
	r.log.Debug("insight generation state",
		logger.String("from", string(r.state)),
		logger.String("state", string(next)),
	)
	r.state = next
	r.span.AddEvent(string(next))
}

func (r *run) fail(msg string, err error) {
	r.log.Error(msg,
		logger.String("failed_in", string(r.state)),
		logger.Err(err),
	)
	r.state = StateFailed
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, msg)
}

// generate fetches the window, aggregates in memory and writes the insight
// once. Nothing is written when the guard fails or any step errors.
func (s *insightService) generate(ctx context.Context, userID string, kind generationKind) (*models.GenerationResult, error) {
	ctx, span := s.tracer.Start(ctx, "InsightService.Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("insight.type", string(kind.insightType)),
		),
	)
	defer span.End()

	r := &run{
		state: StateIdle,
		log:   logger.Ctx(ctx).With(logger.String("insight_type", string(kind.insightType))),
		span:  span,
	}

	end := s.now().UTC()
	start := kind.windowStart(end)

	r.to(StateFetching)
	logs, err := s.logRepo.GetByUserIDAndDateRange(ctx, userID, start, end)
	if err != nil {
		r.fail("failed to fetch food logs", err)
		return nil, err
	}
	// logs without moods count toward nothing, including the minimum
	logs = insights.LogsWithMoods(logs)
	span.SetAttributes(attribute.Int("insight.log_count", len(logs)))

	if len(logs) < kind.minLogs {
		r.to(StateDone)
		r.log.Info("not enough data for insight",
			logger.Int("found", len(logs)),
			logger.Int("required", kind.minLogs),
		)
		return &models.GenerationResult{
			Outcome:  models.OutcomeNotEnoughData,
			Message:  kind.notEnough,
			Required: kind.minLogs,
			Found:    len(logs),
		}, nil
	}

	r.to(StateAggregating)
	report, narrative := kind.build(s.engine, logs, start)
	data, err := json.Marshal(report)
	if err != nil {
		r.fail("failed to encode insight data", err)
		return nil, fmt.Errorf("failed to encode insight data: %w", err)
	}

	r.to(StatePersisting)
	created, err := s.insightRepo.Create(ctx, &models.Insight{
		UserID:      userID,
		InsightType: kind.insightType,
		Title:       narrative.Title,
		Description: narrative.Description,
		Data:        data,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		r.fail("failed to persist insight", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	r.to(StateDone)
	r.log.Info("insight generated",
		logger.String("insight_id", created.ID),
		logger.Int("logs", len(logs)),
	)
	return &models.GenerationResult{
		Outcome: models.OutcomeGenerated,
		Message: kind.generated,
		Insight: created,
	}, nil
}

func (s *insightService) GetInsights(ctx context.Context, userID string, filter models.InsightFilter) ([]models.Insight, error) {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.insightRepo.List(ctx, userID, filter)
}

func (s *insightService) GetInsight(ctx context.Context, userID, insightID string) (*models.Insight, error) {
	if err := ValidateID(insightID); err != nil {
		return nil, err
	}
	return s.insightRepo.GetByID(ctx, userID, insightID)
}

// MarkInsightRead checks ownership before the single conditional write.
func (s *insightService) MarkInsightRead(ctx context.Context, userID, insightID string) (*models.Insight, error) {
	existing, err := s.GetInsight(ctx, userID, insightID)
	if err != nil {
		return nil, err
	}
	if existing.IsRead {
		return existing, nil
	}
	return s.insightRepo.MarkRead(ctx, userID, insightID)
}

func (s *insightService) DeleteInsight(ctx context.Context, userID, insightID string) error {
	if err := ValidateID(insightID); err != nil {
		return err
	}
	return s.insightRepo.Delete(ctx, userID, insightID)
}
