package models

import "time"

// FoodLog is a single meal entry with the moods felt after eating.
type FoodLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FoodName    string    `json:"food_name"`
	FoodID      *string   `json:"food_id,omitempty"`
	MealType    *MealType `json:"meal_type,omitempty"`
	Moods       []Mood    `json:"moods"`
	MealTime    time.Time `json:"meal_time"`
	PortionSize *string   `json:"portion_size,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateFoodLogRequest represents the request to create a food log
type CreateFoodLogRequest struct {
	FoodName    string    `json:"food_name" binding:"required,max=100"`
	FoodID      *string   `json:"food_id" binding:"omitempty,max=100"`
	MealType    *MealType `json:"meal_type" binding:"omitempty,meal_type"`
	Moods       []Mood    `json:"moods" binding:"required,min=1,dive,mood"`
	MealTime    time.Time `json:"meal_time" binding:"required"`
	PortionSize *string   `json:"portion_size" binding:"omitempty,max=50"`
	Notes       *string   `json:"notes" binding:"omitempty,max=500"`
	ImageURL    *string   `json:"image_url" binding:"omitempty,url"`
}

// UpdateFoodLogRequest represents a partial update of a food log.
// Nullable fields can be cleared by sending an explicit null.
type UpdateFoodLogRequest struct {
	FoodName    *string        `json:"food_name" binding:"omitempty,min=1,max=100"`
	MealType    *MealType      `json:"meal_type" binding:"omitempty,meal_type"`
	Moods       []Mood         `json:"moods" binding:"omitempty,min=1,dive,mood"`
	MealTime    *time.Time     `json:"meal_time"`
	PortionSize NullableString `json:"portion_size" binding:"omitempty,max=50"`
	Notes       NullableString `json:"notes" binding:"omitempty,max=500"`
	ImageURL    NullableString `json:"image_url" binding:"omitempty,url"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateFoodLogRequest) IsEmpty() bool {
	return r.FoodName == nil && r.MealType == nil && r.Moods == nil && r.MealTime == nil &&
		!r.PortionSize.Set && !r.Notes.Set && !r.ImageURL.Set
}

// Columns returns the changed fields keyed by column name.
func (r *UpdateFoodLogRequest) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if r.FoodName != nil {
		cols["food_name"] = *r.FoodName
	}
	if r.MealType != nil {
		cols["meal_type"] = *r.MealType
	}
	if r.Moods != nil {
		cols["moods"] = r.Moods
	}
	if r.MealTime != nil {
		cols["meal_time"] = r.MealTime.UTC()
	}
	if r.PortionSize.Set {
		cols["portion_size"] = r.PortionSize.ToPtr()
	}
	if r.Notes.Set {
		cols["notes"] = r.Notes.ToPtr()
	}
	if r.ImageURL.Set {
		cols["image_url"] = r.ImageURL.ToPtr()
	}
	return cols
}

// FoodLogFilter narrows a food log listing. Zero values mean "no constraint".
type FoodLogFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Moods     []Mood
	FoodName  string
	Limit     int
	Offset    int
}
