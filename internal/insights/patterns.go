package insights

import (
	"slices"
	"strings"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

const (
	// minComboCount is the count at which a mood combination is worth
	// mentioning in the summary.
	minComboCount = 2
	// minCorrelationEntries is the number of mood entries a food needs
	// before its dominant mood is considered.
	minCorrelationEntries = 3
	// correlationThreshold is the dominant mood share, in percent, that
	// makes a food-mood correlation.
	correlationThreshold = 60.0
	// boosterThreshold is the booster-mood share a food must exceed.
	boosterThreshold = 0.6
	maxBoosters      = 3

	comboSeparator = " + "
)

// MoodCombinations tallies logs tagged with more than one mood.
type MoodCombinations struct {
	MostCommon  string           `json:"most_common,omitempty"`
	Count       int              `json:"count"`
	Significant bool             `json:"significant"`
	All         *Counter[string] `json:"all_combinations"`
}

// FoodMoods is the flattened mood tally of one food.
type FoodMoods struct {
	Food  string
	Moods *Counter[models.Mood]
}

// FoodMoodCorrelation is the dominant mood of a food.
type FoodMoodCorrelation struct {
	Food       string      `json:"-"`
	Mood       models.Mood `json:"mood"`
	Count      int         `json:"count"`
	Total      int         `json:"total"`
	Percentage int         `json:"percentage"`
}

// FoodCorrelations keeps correlations in food discovery order and encodes
// as an object keyed by food name.
type FoodCorrelations []FoodMoodCorrelation

// MarshalJSON implements json.Marshaler.
func (fc FoodCorrelations) MarshalJSON() ([]byte, error) {
	var obj orderedObject
	for _, c := range fc {
		obj.set(c.Food, c)
	}
	return obj.MarshalJSON()
}

// MoodBooster is a food mostly followed by booster moods.
type MoodBooster struct {
	Food         string                `json:"food"`
	Moods        *Counter[models.Mood] `json:"moods"`
	PositiveRate float64               `json:"positive_rate"`
}

// Patterns is the pattern section of an insight.
type Patterns struct {
	MoodCombinations     *MoodCombinations `json:"mood_combinations,omitempty"`
	FoodMoodCorrelations FoodCorrelations  `json:"food_mood_correlations,omitempty"`
	MoodBoosters         []MoodBooster     `json:"mood_boosters,omitempty"`
	Summary              string            `json:"summary"`
}

// ComboKey sorts moods and joins them with " + ". moods is not modified.
func ComboKey(moods []models.Mood) string {
	parts := make([]string, len(moods))
	for i, m := range moods {
		parts[i] = string(m)
	}
	slices.Sort(parts)
	return strings.Join(parts, comboSeparator)
}

// MoodCombinationPatterns counts one combo per multi-mood log. It returns nil
// when no log has more than one mood.
func MoodCombinationPatterns(logs []models.FoodLog) *MoodCombinations {
	combos := NewCounter[string]()
	for _, log := range logs {
		if len(log.Moods) > 1 {
			combos.Add(ComboKey(log.Moods))
		}
	}
	key, count, ok := combos.Max()
	if !ok {
		return nil
	}
	return &MoodCombinations{
		MostCommon:  key,
		Count:       count,
		Significant: count >= minComboCount,
		All:         combos,
	}
}

// GroupMoodsByFood flattens moods per food name, foods in first-logged order.
func GroupMoodsByFood(logs []models.FoodLog) []FoodMoods {
	var groups []FoodMoods
	index := make(map[string]int)
	for _, log := range logs {
		i, ok := index[log.FoodName]
		if !ok {
			i = len(groups)
			index[log.FoodName] = i
			groups = append(groups, FoodMoods{Food: log.FoodName, Moods: NewCounter[models.Mood]()})
		}
		for _, m := range log.Moods {
			groups[i].Moods.Add(m)
		}
	}
	return groups
}

// FoodMoodCorrelations reports foods with at least three mood entries whose
// dominant mood covers 60% or more of them.
func FoodMoodCorrelations(logs []models.FoodLog) FoodCorrelations {
	var out FoodCorrelations
	for _, g := range GroupMoodsByFood(logs) {
		total := g.Moods.Total()
		if total < minCorrelationEntries {
			continue
		}
		mood, count, _ := g.Moods.Max()
		pct := float64(count) / float64(total) * 100
		if pct < correlationThreshold {
			continue
		}
		out = append(out, FoodMoodCorrelation{
			Food:       g.Food,
			Mood:       mood,
			Count:      count,
			Total:      total,
			Percentage: roundInt(pct),
		})
	}
	return out
}

// MoodBoosters returns the first three foods, in discovery order, whose
// share of booster moods exceeds 60%.
func MoodBoosters(groups []FoodMoods, boosterMoods []models.Mood) []MoodBooster {
	var out []MoodBooster
	for _, g := range groups {
		total := g.Moods.Total()
		if total == 0 {
			continue
		}
		positive := 0
		for _, m := range boosterMoods {
			positive += g.Moods.Get(m)
		}
		rate := float64(positive) / float64(total)
		if rate <= boosterThreshold {
			continue
		}
		out = append(out, MoodBooster{Food: g.Food, Moods: g.Moods, PositiveRate: rate})
		if len(out) == maxBoosters {
			break
		}
	}
	return out
}

// PatternSummary renders the combination and correlation sentences.
func PatternSummary(combos *MoodCombinations, correlations FoodCorrelations) string {
	var b strings.Builder
	if combos != nil && combos.Significant {
		b.WriteString("You often feel ")
		b.WriteString(strings.Replace(combos.MostCommon, comboSeparator, " and ", 1))
		b.WriteString(" together. ")
	}
	if len(correlations) > 0 {
		top := correlations[0]
		b.WriteString(top.Food)
		b.WriteString(" often makes you feel ")
		b.WriteString(string(top.Mood))
		b.WriteString(". ")
	}
	return strings.TrimSpace(b.String())
}

// DetectPatterns builds the full pattern section. Boosters are included only
// when withBoosters is set.
func DetectPatterns(logs []models.FoodLog, boosterMoods []models.Mood, withBoosters bool) Patterns {
	p := Patterns{
		MoodCombinations:     MoodCombinationPatterns(logs),
		FoodMoodCorrelations: FoodMoodCorrelations(logs),
	}
	if withBoosters {
		p.MoodBoosters = MoodBoosters(GroupMoodsByFood(logs), boosterMoods)
	}
	p.Summary = PatternSummary(p.MoodCombinations, p.FoodMoodCorrelations)
	return p
}
