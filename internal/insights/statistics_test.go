package insights

import (
	"testing"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

func TestStatistics_EmptyLogs(t *testing.T) {
	var logs []models.FoodLog

	counts := MoodCounts(logs)
	if counts.Len() != 0 {
		t.Errorf("expected empty mood counts, got %d keys", counts.Len())
	}
	if m, ok := MostCommonMood(counts); ok {
		t.Errorf("expected no most common mood, got %q", m)
	}
	if got := AverageMoodScore(logs, WeightedScores()); got != 0 {
		t.Errorf("expected average 0, got %v", got)
	}
	if got := UniqueFoodCount(logs); got != 0 {
		t.Errorf("expected 0 unique foods, got %d", got)
	}
	if got := DaysWithLogs(logs); got != 0 {
		t.Errorf("expected 0 days, got %d", got)
	}
	if got := ConsistencyPercentage(DaysWithLogs(logs), MonthlyWindowDays); got != 0 {
		t.Errorf("expected 0%% consistency, got %d", got)
	}
	if got := MealTimingBuckets(logs); got != nil {
		t.Errorf("expected nil meal timing, got %+v", got)
	}

	stats := ComputeStatistics(logs, WeightedScores(), WeeklyWindowDays)
	if stats.TotalMeals != 0 || stats.MostCommonMood != "" || stats.AverageMoodsPerMeal != 0 {
		t.Errorf("expected zero statistics, got %+v", stats)
	}
}

func TestMoodCounts_WeeklyScenario(t *testing.T) {
	logs := append(repeat(3, "Toast", models.MoodHappy), repeat(2, "Pasta", models.MoodSleepy, models.MoodAnxious)...)

	stats := ComputeStatistics(logs, WeightedScores(), WeeklyWindowDays)
	if stats.TotalMeals != 5 {
		t.Errorf("expected 5 meals, got %d", stats.TotalMeals)
	}
	if stats.TotalMoodEntries != 7 {
		t.Errorf("expected 7 mood entries, got %d", stats.TotalMoodEntries)
	}
	want := map[models.Mood]int{models.MoodHappy: 3, models.MoodSleepy: 2, models.MoodAnxious: 2}
	if stats.MoodStatistics.Len() != len(want) {
		t.Fatalf("expected %d moods, got %d", len(want), stats.MoodStatistics.Len())
	}
	for m, n := range want {
		if got := stats.MoodStatistics.Get(m); got != n {
			t.Errorf("expected %s=%d, got %d", m, n, got)
		}
	}
	if stats.MostCommonMood != models.MoodHappy {
		t.Errorf("expected most common mood happy, got %q", stats.MostCommonMood)
	}
	if stats.AverageMoodsPerMeal != 1.4 {
		t.Errorf("expected 1.4 moods per meal, got %v", stats.AverageMoodsPerMeal)
	}
}

func TestMoodCounts_FlatteningInvariant(t *testing.T) {
	logs := []models.FoodLog{
		foodLog("Salad", baseTime, models.MoodCalm),
		foodLog("Burger", baseTime, models.MoodSluggish, models.MoodSatisfied, models.MoodGuilty),
		foodLog("Empty", baseTime),
		foodLog("Curry", baseTime, models.MoodHappy, models.MoodHappy),
	}

	want := 0
	for _, l := range logs {
		want += len(l.Moods)
	}
	if got := MoodCounts(logs).Total(); got != want {
		t.Errorf("expected %d flattened entries, got %d", want, got)
	}
}

func TestMostCommonMood_TieBreak(t *testing.T) {
	logs := []models.FoodLog{
		foodLog("A", baseTime, models.MoodHappy),
		foodLog("B", baseTime, models.MoodSad),
		foodLog("C", baseTime, models.MoodSad),
		foodLog("D", baseTime, models.MoodHappy),
	}
	for i := 0; i < 10; i++ {
		m, ok := MostCommonMood(MoodCounts(logs))
		if !ok || m != models.MoodHappy {
			t.Fatalf("expected happy, got %q", m)
		}
	}
}

func TestAggregation_Idempotent(t *testing.T) {
	logs := append(repeat(4, "Toast", models.MoodHappy, models.MoodFocused), repeat(3, "Soup", models.MoodCalm)...)
	scores := WeightedScores()

	if a, b := AverageMoodScore(logs, scores), AverageMoodScore(logs, scores); a != b {
		t.Errorf("average changed between calls: %v vs %v", a, b)
	}
	if a, b := UniqueFoodCount(logs), UniqueFoodCount(logs); a != b {
		t.Errorf("unique foods changed between calls: %d vs %d", a, b)
	}
	first, second := MoodCounts(logs).Entries(), MoodCounts(logs).Entries()
	if len(first) != len(second) {
		t.Fatalf("mood counts changed between calls")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAverageMoodScore(t *testing.T) {
	tests := []struct {
		name   string
		logs   []models.FoodLog
		scores ScoreTable
		want   float64
	}{
		{
			name:   "weighted across flattened entries",
			logs:   []models.FoodLog{foodLog("A", baseTime, models.MoodEnergised, models.MoodSad), foodLog("B", baseTime, models.MoodHappy)},
			scores: WeightedScores(),
			want:   6, // (9 + 1 + 8) / 3
		},
		{
			name:   "rounds to one decimal",
			logs:   []models.FoodLog{foodLog("A", baseTime, models.MoodHappy, models.MoodCalm, models.MoodCalm)},
			scores: WeightedScores(),
			want:   6, // 18 / 3
		},
		{
			name:   "rounds half up",
			logs:   []models.FoodLog{foodLog("A", baseTime, models.MoodHappy, models.MoodFocused, models.MoodFocused, models.MoodCalm)},
			scores: WeightedScores(),
			want:   6.3, // 25 / 4 = 6.25
		},
		{
			name:   "unscored mood defaults to 5",
			logs:   []models.FoodLog{foodLog("A", baseTime, models.MoodGuilty, models.MoodEnergised)},
			scores: WeightedScores(),
			want:   7,
		},
		{
			name:   "flat table",
			logs:   []models.FoodLog{foodLog("A", baseTime, models.MoodEnergised, models.MoodSad)},
			scores: FlatScores(),
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageMoodScore(tt.logs, tt.scores); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUniqueFoodCount_ExactMatch(t *testing.T) {
	logs := []models.FoodLog{
		foodLog("Apple", baseTime, models.MoodHappy),
		foodLog("apple", baseTime, models.MoodHappy),
		foodLog("Apple ", baseTime, models.MoodHappy),
		foodLog("Apple", baseTime, models.MoodHappy),
	}
	if got := UniqueFoodCount(logs); got != 3 {
		t.Errorf("expected 3 unique foods, got %d", got)
	}
}

func TestDaysWithLogs_UTCDate(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	logs := []models.FoodLog{
		foodLog("A", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), models.MoodHappy),
		foodLog("B", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), models.MoodHappy),
		// 21:00 EST on the 10th is the 11th in UTC.
		foodLog("C", time.Date(2025, 3, 10, 21, 0, 0, 0, est), models.MoodHappy),
	}
	if got := DaysWithLogs(logs); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
}

func TestConsistencyPercentage(t *testing.T) {
	tests := []struct {
		days, window, want int
	}{
		{22, 30, 73},
		{21, 30, 70},
		{15, 30, 50},
		{7, 7, 100},
		{3, 7, 43},
		{0, 30, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := ConsistencyPercentage(tt.days, tt.window); got != tt.want {
			t.Errorf("ConsistencyPercentage(%d, %d) = %d, want %d", tt.days, tt.window, got, tt.want)
		}
	}
}

func TestMealTimingBuckets(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, 3, 10, hour, 30, 0, 0, time.UTC)
	}
	logs := []models.FoodLog{
		foodLog("A", at(5), models.MoodSleepy),
		foodLog("B", at(6), models.MoodCalm),
		foodLog("C", at(11), models.MoodCalm),
		foodLog("D", at(12), models.MoodHappy),
		foodLog("E", at(17), models.MoodSatisfied),
		foodLog("F", at(21), models.MoodSatisfied),
		foodLog("G", at(22), models.MoodSluggish),
		foodLog("H", at(0), models.MoodSluggish),
	}

	got := MealTimingBuckets(logs)
	if got == nil {
		t.Fatal("expected meal timing")
	}
	if got.Distribution != (MealDistribution{Breakfast: 2, Lunch: 1, Dinner: 2, LateNight: 3}) {
		t.Errorf("unexpected distribution: %+v", got.Distribution)
	}
	if got.EarliestMeal != 0 || got.LatestMeal != 22 {
		t.Errorf("expected earliest 0 and latest 22, got %d and %d", got.EarliestMeal, got.LatestMeal)
	}
	// (5+6+11+12+17+21+22+0)/8 = 11.75
	if got.AverageHour != 12 {
		t.Errorf("expected average hour 12, got %d", got.AverageHour)
	}
}

func TestMealTimingBuckets_UsesStoredLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	logs := []models.FoodLog{
		foodLog("Ramen", time.Date(2025, 3, 10, 19, 0, 0, 0, tokyo), models.MoodSatisfied),
	}
	got := MealTimingBuckets(logs)
	if got.Distribution.Dinner != 1 || got.AverageHour != 19 {
		t.Errorf("expected one dinner at 19, got %+v", got)
	}
}

func TestComputeStatistics_IgnoresLogsWithoutMoods(t *testing.T) {
	logs := []models.FoodLog{
		foodLog("Sandwich", baseTime),
		foodLog("Soup", baseTime.Add(6*time.Hour)),
		foodLog("Crisps", baseTime.Add(30*time.Hour), []models.Mood{}...),
	}

	stats := ComputeStatistics(logs, WeightedScores(), WeeklyWindowDays)
	if stats.TotalMeals != 0 || stats.TotalMoodEntries != 0 {
		t.Errorf("expected no meals counted, got %d meals %d entries", stats.TotalMeals, stats.TotalMoodEntries)
	}
	if stats.UniqueFoods != 0 || stats.DaysLogged != 0 || stats.ConsistencyScore != 0 {
		t.Errorf("expected zero foods/days/consistency, got %+v", stats)
	}
	if stats.MealTiming != nil {
		t.Errorf("expected no meal timing, got %+v", stats.MealTiming)
	}

	mixed := append(logs, foodLog("Toast", baseTime.Add(2*time.Hour), models.MoodHappy))
	stats = ComputeStatistics(mixed, WeightedScores(), WeeklyWindowDays)
	if stats.TotalMeals != 1 || stats.UniqueFoods != 1 || stats.DaysLogged != 1 {
		t.Errorf("expected only Toast counted, got %+v", stats)
	}
	d := stats.MealTiming.Distribution
	if d.Breakfast+d.Lunch+d.Dinner+d.LateNight != 1 {
		t.Errorf("expected one bucketed meal, got %+v", d)
	}
	if len(mixed[0].Moods) != 0 || mixed[0].FoodName != "Sandwich" {
		t.Error("input logs must not be modified")
	}
}

func TestLogsWithMoods(t *testing.T) {
	withMoods := repeat(2, "Toast", models.MoodHappy)
	if got := LogsWithMoods(withMoods); len(got) != 2 {
		t.Errorf("expected both logs kept, got %d", len(got))
	}

	logs := []models.FoodLog{withMoods[0], foodLog("Empty", baseTime), withMoods[1]}
	got := LogsWithMoods(logs)
	if len(got) != 2 || got[0].FoodName != "Toast" || got[1].FoodName != "Toast" {
		t.Errorf("expected the mood-less log dropped, got %+v", got)
	}
	if logs[1].FoodName != "Empty" {
		t.Error("input slice must not be modified")
	}
}
