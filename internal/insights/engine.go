package insights

import (
	"slices"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

// Report is the data payload stored on an insight.
type Report struct {
	Statistics  Statistics  `json:"statistics"`
	Patterns    Patterns    `json:"patterns"`
	Educational Educational `json:"educational"`
	Trends      *Trends     `json:"trends,omitempty"`
}

// Engine assembles reports from a fixed set of Tables.
type Engine struct {
	tables        Tables
	chronological bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTables replaces the default lookup tables. The tables are copied.
func WithTables(t Tables) Option {
	return func(e *Engine) {
		e.tables = t.clone()
	}
}

// WithScores replaces only the mood score table.
func WithScores(scores ScoreTable) Option {
	return func(e *Engine) {
		t := e.tables
		t.Scores = scores
		e.tables = t.clone()
	}
}

// WithChronologicalTrendSplit sorts logs oldest first before splitting them
// for trend comparison. By default logs are split in the order supplied.
func WithChronologicalTrendSplit(enabled bool) Option {
	return func(e *Engine) {
		e.chronological = enabled
	}
}

// NewEngine returns an Engine using DefaultTables unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{tables: DefaultTables()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns a copy of the engine's tables.
func (e *Engine) Tables() Tables {
	return e.tables.clone()
}

// Weekly builds the weekly report: statistics over a 7-day consistency
// window, patterns and educational content. Weekly reports carry no trends.
func (e *Engine) Weekly(logs []models.FoodLog, periodStart time.Time) (Report, Narrative) {
	logs = LogsWithMoods(logs)
	stats := ComputeStatistics(logs, e.tables.Scores, WeeklyWindowDays)
	patterns := DetectPatterns(logs, e.tables.BoosterMoods, false)
	report := Report{
		Statistics:  stats,
		Patterns:    patterns,
		Educational: EducationalContent(stats.MoodStatistics, e.tables.Education),
	}
	return report, WeeklyNarrative(periodStart, stats, patterns)
}

// Monthly builds the monthly report including trends.
func (e *Engine) Monthly(logs []models.FoodLog, periodStart time.Time) (Report, Narrative) {
	logs = LogsWithMoods(logs)
	stats := ComputeStatistics(logs, e.tables.Scores, MonthlyWindowDays)
	patterns := DetectPatterns(logs, e.tables.BoosterMoods, false)
	trends := e.trends(logs)
	report := Report{
		Statistics:  stats,
		Patterns:    patterns,
		Educational: EducationalContent(stats.MoodStatistics, e.tables.Education),
		Trends:      &trends,
	}
	return report, MonthlyNarrative(periodStart, stats, patterns, trends)
}

// Patterns builds the food-mood pattern report including mood boosters and
// trends.
func (e *Engine) Patterns(logs []models.FoodLog) (Report, Narrative) {
	logs = LogsWithMoods(logs)
	stats := ComputeStatistics(logs, e.tables.Scores, MonthlyWindowDays)
	patterns := DetectPatterns(logs, e.tables.BoosterMoods, true)
	trends := e.trends(logs)
	report := Report{
		Statistics:  stats,
		Patterns:    patterns,
		Educational: EducationalContent(stats.MoodStatistics, e.tables.Education),
		Trends:      &trends,
	}
	return report, PatternNarrative(stats, patterns)
}

func (e *Engine) trends(logs []models.FoodLog) Trends {
	if e.chronological {
		sorted := slices.Clone(logs)
		slices.SortStableFunc(sorted, func(a, b models.FoodLog) int {
			return a.MealTime.Compare(b.MealTime)
		})
		logs = sorted
	}
	return AnalyzeTrends(logs, e.tables.PositiveMoods, e.tables.NegativeMoods)
}
