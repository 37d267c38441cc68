package models

// Mood is a label from the fixed mood taxonomy.
type Mood string

const (
	MoodEnergised   Mood = "energised"
	MoodSleepy      Mood = "sleepy"
	MoodCalm        Mood = "calm"
	MoodFocused     Mood = "focused"
	MoodAnxious     Mood = "anxious"
	MoodHappy       Mood = "happy"
	MoodSad         Mood = "sad"
	MoodIrritable   Mood = "irritable"
	MoodSatisfied   Mood = "satisfied"
	MoodSluggish    Mood = "sluggish"
	MoodGuilty      Mood = "guilty"
	MoodCravingMore Mood = "craving_more"
)

// CoreMoods is the ten-label taxonomy shared by every client version.
var CoreMoods = []Mood{
	MoodEnergised,
	MoodSleepy,
	MoodCalm,
	MoodFocused,
	MoodAnxious,
	MoodHappy,
	MoodSad,
	MoodIrritable,
	MoodSatisfied,
	MoodSluggish,
}

// ExtendedMoods is CoreMoods plus guilty and craving_more. Food logs accept
// any label from this list.
var ExtendedMoods = []Mood{
	MoodEnergised,
	MoodSleepy,
	MoodCalm,
	MoodFocused,
	MoodAnxious,
	MoodHappy,
	MoodSad,
	MoodIrritable,
	MoodSatisfied,
	MoodSluggish,
	MoodGuilty,
	MoodCravingMore,
}

// IsValid reports whether m belongs to the extended taxonomy.
func (m Mood) IsValid() bool {
	for _, known := range ExtendedMoods {
		if m == known {
			return true
		}
	}
	return false
}

// MealType classifies a food log.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// IsValid reports whether t is a known meal type.
func (t MealType) IsValid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}
