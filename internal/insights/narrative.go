package insights

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

const maxEducationalMoods = 3

// EducationalEntry is the explainer for one of the user's top moods.
type EducationalEntry struct {
	Mood        models.Mood `json:"-"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Reason      string      `json:"reason"`
	Frequency   int         `json:"frequency"`
}

// Educational encodes as an object keyed by mood, most frequent first.
type Educational []EducationalEntry

// MarshalJSON implements json.Marshaler.
func (ed Educational) MarshalJSON() ([]byte, error) {
	var obj orderedObject
	for _, e := range ed {
		obj.set(string(e.Mood), e)
	}
	return obj.MarshalJSON()
}

// Narrative is the generated title and description of an insight.
type Narrative struct {
	Title       string
	Description string
}

// EducationalContent picks the three most counted moods and attaches the
// explainers available for them. Moods without an explainer are skipped
// rather than replaced.
func EducationalContent(counts *Counter[models.Mood], content map[models.Mood]Education) Educational {
	out := Educational{}
	for _, e := range counts.Top(maxEducationalMoods) {
		edu, ok := content[e.Key]
		if !ok {
			continue
		}
		out = append(out, EducationalEntry{
			Mood:        e.Key,
			Title:       edu.Title,
			Description: edu.Description,
			Reason:      edu.Reason,
			Frequency:   e.Count,
		})
	}
	return out
}

// ConsistencyMessage phrases a consistency percentage in one of three tiers.
func ConsistencyMessage(pct int) string {
	switch {
	case pct > 70:
		return fmt.Sprintf("Great consistency! You tracked on %d%% of days.", pct)
	case pct > 50:
		return fmt.Sprintf("Good effort! You tracked on %d%% of days.", pct)
	default:
		return fmt.Sprintf("You tracked on %d%% of days. Consider logging more regularly for better insights.", pct)
	}
}

// WeeklyNarrative renders the weekly report text.
func WeeklyNarrative(periodStart time.Time, stats Statistics, patterns Patterns) Narrative {
	var s sentences
	s.add(loggedSentence(stats, "this week"))
	if stats.MostCommonMood != "" {
		s.addf("You felt %s most often (%d times).", stats.MostCommonMood, stats.MostCommonMoodCount)
	}
	s.addf("You tried %d different foods.", stats.UniqueFoods)
	s.add(patterns.Summary)

	return Narrative{
		Title:       "Week of " + periodStart.Format("1/2/2006"),
		Description: s.String(),
	}
}

// MonthlyNarrative renders the monthly report text.
func MonthlyNarrative(periodStart time.Time, stats Statistics, patterns Patterns, trends Trends) Narrative {
	var s sentences
	s.add(loggedSentence(stats, "this month"))
	s.add(ConsistencyMessage(stats.ConsistencyScore))
	if stats.MostCommonMood != "" {
		s.addf("You felt %s most often.", stats.MostCommonMood)
	}
	s.addf("You tried %d different foods.", stats.UniqueFoods)
	s.add(patterns.Summary)
	s.add(trends.Summary)

	return Narrative{
		Title:       "Monthly Summary - " + periodStart.Format("January 2006"),
		Description: s.String(),
	}
}

// PatternNarrative renders the food-mood pattern report text.
func PatternNarrative(stats Statistics, patterns Patterns) Narrative {
	var s sentences
	s.add("Here are some interesting patterns from your food and mood tracking:")
	if len(patterns.MoodBoosters) > 0 {
		foods := make([]string, len(patterns.MoodBoosters))
		for i, b := range patterns.MoodBoosters {
			foods[i] = b.Food
		}
		s.addf("%s consistently boost your mood.", strings.Join(foods, ", "))
	}
	if stats.MostCommonMood != "" {
		s.addf("Your most common mood is %s.", stats.MostCommonMood)
	}
	s.add(patterns.Summary)

	return Narrative{
		Title:       "Food-Mood Patterns",
		Description: s.String(),
	}
}

func loggedSentence(stats Statistics, period string) string {
	if stats.TotalMoodEntries == 0 {
		return fmt.Sprintf("You logged %d meals %s.", stats.TotalMeals, period)
	}
	return fmt.Sprintf("You logged %d meals %s with an average mood score of %s/10.",
		stats.TotalMeals, period, strconv.FormatFloat(stats.AverageMoodScore, 'f', -1, 64))
}

// sentences joins non-empty sentences with single spaces.
type sentences []string

func (s *sentences) add(text string) {
	if text = strings.TrimSpace(text); text != "" {
		*s = append(*s, text)
	}
}

func (s *sentences) addf(format string, args ...any) {
	s.add(fmt.Sprintf(format, args...))
}

func (s sentences) String() string {
	return strings.Join(s, " ")
}
