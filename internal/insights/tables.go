package insights

import "github.com/JonnyWalker81/foodmood/backend/internal/models"

// DefaultMoodScore is used for moods missing from a ScoreTable.
const DefaultMoodScore = 5.0

// ScoreTable maps a mood to its desirability score on a 1-10 scale.
type ScoreTable map[models.Mood]float64

// Score returns the score for m, falling back to DefaultMoodScore.
func (t ScoreTable) Score(m models.Mood) float64 {
	if s, ok := t[m]; ok {
		return s
	}
	return DefaultMoodScore
}

// WeightedScores ranks moods from energised (9) down to sad and irritable (1).
// guilty and craving_more are unscored and fall back to DefaultMoodScore.
func WeightedScores() ScoreTable {
	return ScoreTable{
		models.MoodEnergised: 9,
		models.MoodHappy:     8,
		models.MoodSatisfied: 7,
		models.MoodFocused:   6,
		models.MoodCalm:      5,
		models.MoodSluggish:  4,
		models.MoodSleepy:    3,
		models.MoodAnxious:   2,
		models.MoodSad:       1,
		models.MoodIrritable: 1,
	}
}

// FlatScores gives every mood the same score of 1.
func FlatScores() ScoreTable {
	t := make(ScoreTable, len(models.ExtendedMoods))
	for _, m := range models.ExtendedMoods {
		t[m] = 1
	}
	return t
}

// Education is the static explainer attached to a frequently felt mood.
type Education struct {
	Title       string
	Description string
	Reason      string
}

// Tables holds the lookup data an Engine computes with. Build one with
// DefaultTables and override fields as needed; an Engine copies it.
type Tables struct {
	Scores    ScoreTable
	Education map[models.Mood]Education
	// PositiveMoods and NegativeMoods drive trend comparison.
	PositiveMoods []models.Mood
	NegativeMoods []models.Mood
	// BoosterMoods decide whether a food counts as a mood booster.
	BoosterMoods []models.Mood
}

// DefaultTables returns a fresh copy of the standard tables.
func DefaultTables() Tables {
	return Tables{
		Scores:    WeightedScores(),
		Education: defaultEducation(),
		PositiveMoods: []models.Mood{
			models.MoodEnergised, models.MoodFocused, models.MoodHappy, models.MoodSatisfied, models.MoodCalm,
		},
		NegativeMoods: []models.Mood{
			models.MoodSleepy, models.MoodAnxious, models.MoodSad, models.MoodIrritable, models.MoodSluggish,
		},
		BoosterMoods: []models.Mood{models.MoodEnergised, models.MoodHappy, models.MoodSatisfied},
	}
}

func (t Tables) clone() Tables {
	out := Tables{
		Scores:        make(ScoreTable, len(t.Scores)),
		Education:     make(map[models.Mood]Education, len(t.Education)),
		PositiveMoods: append([]models.Mood(nil), t.PositiveMoods...),
		NegativeMoods: append([]models.Mood(nil), t.NegativeMoods...),
		BoosterMoods:  append([]models.Mood(nil), t.BoosterMoods...),
	}
	for k, v := range t.Scores {
		out.Scores[k] = v
	}
	for k, v := range t.Education {
		out.Education[k] = v
	}
	return out
}

func defaultEducation() map[models.Mood]Education {
	return map[models.Mood]Education{
		models.MoodSleepy: {
			Title:       "Feeling sleepy after eating? That's normal!",
			Description: "It's normal to feel sleepy after eating, especially after a big lunch or dinner. That's why people talk about 'food comas'; your body is busy digesting, and you just want to take a nap. This is especially common with high-carb meals or large portions.",
			Reason:      "digestion_energy",
		},
		models.MoodEnergised: {
			Title:       "Foods that energize you",
			Description: "Feeling energized after eating is a great sign! This often happens with foods rich in protein, complex carbs, or natural sugars. Your body is getting the fuel it needs to power through your day.",
			Reason:      "nutrient_rich",
		},
		models.MoodSatisfied: {
			Title:       "The satisfaction factor",
			Description: "Feeling satisfied after a meal means you've found foods that truly nourish you. This feeling of contentment is important for maintaining healthy eating habits and avoiding overeating later.",
			Reason:      "nourishment",
		},
		models.MoodFocused: {
			Title:       "Foods that boost focus",
			Description: "Certain foods can help improve your concentration and mental clarity. This often includes foods rich in omega-3s, antioxidants, or steady-release energy sources that keep your brain fueled without crashes.",
			Reason:      "brain_fuel",
		},
		models.MoodCalm: {
			Title:       "Foods that promote calmness",
			Description: "Feeling calm after eating can indicate foods that help regulate your nervous system. This might include foods rich in magnesium, tryptophan, or other nutrients that support relaxation.",
			Reason:      "nervous_system",
		},
	}
}

func moodSet(moods []models.Mood) map[models.Mood]struct{} {
	set := make(map[models.Mood]struct{}, len(moods))
	for _, m := range moods {
		set[m] = struct{}{}
	}
	return set
}
