package insights

import (
	"math"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

// trendThreshold is the swing in positive-mood percentage points needed to
// call a direction.
const trendThreshold = 10.0

// Trend directions.
const (
	TrendImproved = "improved"
	TrendDeclined = "declined"
)

// MoodTrend compares the positive-mood share of two halves of a period.
type MoodTrend struct {
	Direction                    string `json:"direction"`
	FirstHalfPercentage          int    `json:"first_half_percentage"`
	SecondHalfPercentage         int    `json:"second_half_percentage"`
	Difference                   int    `json:"difference"`
	FirstHalfNegativePercentage  int    `json:"first_half_negative_percentage"`
	SecondHalfNegativePercentage int    `json:"second_half_negative_percentage"`
}

// Trends is the trend section of an insight. MoodTrend is nil when the
// halves are within the threshold of each other.
type Trends struct {
	MoodTrend *MoodTrend `json:"mood_trend,omitempty"`
	Summary   string     `json:"summary"`
}

// SplitHalves cuts logs at floor(n/2) in the order given. Logs fetched
// newest first therefore put the more recent half first.
func SplitHalves(logs []models.FoodLog) (first, second []models.FoodLog) {
	mid := len(logs) / 2
	return logs[:mid], logs[mid:]
}

// moodShare returns the percentage of flattened mood entries that fall in
// set, or 0 for no entries.
func moodShare(logs []models.FoodLog, set map[models.Mood]struct{}) float64 {
	total, hits := 0, 0
	for _, log := range logs {
		for _, m := range log.Moods {
			total++
			if _, ok := set[m]; ok {
				hits++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// AnalyzeTrends compares the two halves produced by SplitHalves.
func AnalyzeTrends(logs []models.FoodLog, positive, negative []models.Mood) Trends {
	first, second := SplitHalves(logs)
	pos, neg := moodSet(positive), moodSet(negative)

	firstPct := moodShare(first, pos)
	secondPct := moodShare(second, pos)
	diff := secondPct - firstPct

	if math.Abs(diff) <= trendThreshold {
		return Trends{Summary: "Your mood patterns remained consistent this month."}
	}

	direction := TrendDeclined
	if diff > 0 {
		direction = TrendImproved
	}
	return Trends{
		MoodTrend: &MoodTrend{
			Direction:                    direction,
			FirstHalfPercentage:          roundInt(firstPct),
			SecondHalfPercentage:         roundInt(secondPct),
			Difference:                   roundInt(diff),
			FirstHalfNegativePercentage:  roundInt(moodShare(first, neg)),
			SecondHalfNegativePercentage: roundInt(moodShare(second, neg)),
		},
		Summary: "Your positive mood experiences " + direction + " this month.",
	}
}
