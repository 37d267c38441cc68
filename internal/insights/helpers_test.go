package insights

import (
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func foodLog(food string, at time.Time, moods ...models.Mood) models.FoodLog {
	return models.FoodLog{
		ID:       food + at.Format(time.RFC3339),
		UserID:   "user-1",
		FoodName: food,
		Moods:    moods,
		MealTime: at,
	}
}

// repeat returns n logs of the same food and moods, one hour apart.
func repeat(n int, food string, moods ...models.Mood) []models.FoodLog {
	out := make([]models.FoodLog, n)
	for i := range out {
		out[i] = foodLog(food, baseTime.Add(time.Duration(i)*time.Hour), moods...)
	}
	return out
}
