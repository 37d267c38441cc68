package insights

import (
	"math"
	"slices"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

// Consistency windows in days. Monthly stays at 30 regardless of the
// calendar month length.
const (
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30
)

// MealTiming summarizes the hour of day meals were eaten.
type MealTiming struct {
	AverageHour  int              `json:"average_hour"`
	EarliestMeal int              `json:"earliest_meal"`
	LatestMeal   int              `json:"latest_meal"`
	Distribution MealDistribution `json:"meal_distribution"`
}

// MealDistribution counts meals per time-of-day bucket.
type MealDistribution struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	LateNight int `json:"late_night"`
}

// Statistics is the count-based summary of a set of logs.
type Statistics struct {
	TotalMeals          int                   `json:"total_meals"`
	TotalMoodEntries    int                   `json:"total_mood_entries"`
	MoodStatistics      *Counter[models.Mood] `json:"mood_statistics"`
	MostCommonMood      models.Mood           `json:"most_common_mood,omitempty"`
	MostCommonMoodCount int                   `json:"most_common_mood_count"`
	AverageMoodScore    float64               `json:"average_mood_score"`
	AverageMoodsPerMeal float64               `json:"average_moods_per_meal"`
	UniqueFoods         int                   `json:"unique_foods"`
	DaysLogged          int                   `json:"days_logged"`
	ConsistencyScore    int                   `json:"consistency_score"`
	MealTiming          *MealTiming           `json:"meal_timing,omitempty"`
}

// LogsWithMoods drops logs that carry no moods, so they count toward
// nothing. logs is not modified.
func LogsWithMoods(logs []models.FoodLog) []models.FoodLog {
	if !slices.ContainsFunc(logs, noMoods) {
		return logs
	}
	return slices.DeleteFunc(slices.Clone(logs), noMoods)
}

func noMoods(log models.FoodLog) bool {
	return len(log.Moods) == 0
}

// MoodCounts flattens the moods of every log and tallies them. A log with
// k moods adds one to each of k buckets.
func MoodCounts(logs []models.FoodLog) *Counter[models.Mood] {
	counts := NewCounter[models.Mood]()
	for _, log := range logs {
		for _, m := range log.Moods {
			counts.Add(m)
		}
	}
	return counts
}

// MostCommonMood returns the mood with the highest count, first seen wins.
func MostCommonMood(counts *Counter[models.Mood]) (models.Mood, bool) {
	m, _, ok := counts.Max()
	return m, ok
}

// AverageMoodScore averages scores across all flattened mood entries,
// rounded to one decimal. It returns 0 when there are no entries.
func AverageMoodScore(logs []models.FoodLog, scores ScoreTable) float64 {
	var sum float64
	entries := 0
	for _, log := range logs {
		for _, m := range log.Moods {
			sum += scores.Score(m)
			entries++
		}
	}
	if entries == 0 {
		return 0
	}
	return roundTo1(sum / float64(entries))
}

// UniqueFoodCount counts distinct food names by exact match.
func UniqueFoodCount(logs []models.FoodLog) int {
	seen := make(map[string]struct{}, len(logs))
	for _, log := range logs {
		seen[log.FoodName] = struct{}{}
	}
	return len(seen)
}

// DaysWithLogs counts distinct UTC calendar dates among meal times.
func DaysWithLogs(logs []models.FoodLog) int {
	days := make(map[string]struct{}, len(logs))
	for _, log := range logs {
		days[log.MealTime.UTC().Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// ConsistencyPercentage is days/windowDays as a rounded percentage.
func ConsistencyPercentage(days, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	return roundInt(float64(days) / float64(windowDays) * 100)
}

// MealTimingBuckets buckets meal hours as read in each timestamp's own
// location. It returns nil for no logs.
func MealTimingBuckets(logs []models.FoodLog) *MealTiming {
	if len(logs) == 0 {
		return nil
	}
	timing := &MealTiming{EarliestMeal: 23}
	sum := 0
	for _, log := range logs {
		h := log.MealTime.Hour()
		sum += h
		timing.EarliestMeal = min(timing.EarliestMeal, h)
		timing.LatestMeal = max(timing.LatestMeal, h)
		switch {
		case h >= 6 && h < 12:
			timing.Distribution.Breakfast++
		case h >= 12 && h < 17:
			timing.Distribution.Lunch++
		case h >= 17 && h < 22:
			timing.Distribution.Dinner++
		default:
			timing.Distribution.LateNight++
		}
	}
	timing.AverageHour = roundInt(float64(sum) / float64(len(logs)))
	return timing
}

// ComputeStatistics runs every aggregate over logs. windowDays sets the
// consistency divisor.
func ComputeStatistics(logs []models.FoodLog, scores ScoreTable, windowDays int) Statistics {
	counts := MoodCounts(logs)
	logs = LogsWithMoods(logs)
	stats := Statistics{
		TotalMeals:       len(logs),
		TotalMoodEntries: counts.Total(),
		MoodStatistics:   counts,
		AverageMoodScore: AverageMoodScore(logs, scores),
		UniqueFoods:      UniqueFoodCount(logs),
		DaysLogged:       DaysWithLogs(logs),
		MealTiming:       MealTimingBuckets(logs),
	}
	if m, n, ok := counts.Max(); ok {
		stats.MostCommonMood = m
		stats.MostCommonMoodCount = n
	}
	if len(logs) > 0 {
		stats.AverageMoodsPerMeal = roundTo1(float64(stats.TotalMoodEntries) / float64(len(logs)))
	}
	stats.ConsistencyScore = ConsistencyPercentage(stats.DaysLogged, windowDays)
	return stats
}

// roundInt rounds half up, so -2.5 becomes -2.
func roundInt(x float64) int {
	return int(math.Floor(x + 0.5))
}

func roundTo1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
