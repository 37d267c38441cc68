package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/pkg/supabase"
)

const foodLogsTable = "food_logs"

type foodLogRepository struct {
	client *supabase.Client
}

// NewSupabaseFoodLogRepository creates a food log repository over PostgREST
func NewSupabaseFoodLogRepository(client *supabase.Client) FoodLogRepository {
	return &foodLogRepository{client: client}
}

func (r *foodLogRepository) Create(ctx context.Context, log *models.FoodLog) (*models.FoodLog, error) {
	data := map[string]interface{}{
		"user_id":   log.UserID,
		"food_name": log.FoodName,
		"moods":     log.Moods,
		"meal_time": timestamp(log.MealTime),
	}
	if log.ID != "" {
		data["id"] = log.ID
	}
	if log.FoodID != nil {
		data["food_id"] = *log.FoodID
	}
	if log.MealType != nil {
		data["meal_type"] = *log.MealType
	}
	if log.PortionSize != nil {
		data["portion_size"] = *log.PortionSize
	}
	if log.Notes != nil {
		data["notes"] = *log.Notes
	}
	if log.ImageURL != nil {
		data["image_url"] = *log.ImageURL
	}

	body, err := r.client.Insert(ctx, foodLogsTable, data)
	if err != nil {
		return nil, storeError("create food log", err)
	}

	created, err := decodeOne[models.FoodLog](body, "create food log")
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("no food log returned")
	}
	return created, err
}

func (r *foodLogRepository) GetByID(ctx context.Context, userID, id string) (*models.FoodLog, error) {
	q := ownedBy(userID, id)
	q.Set("limit", "1")

	body, err := r.client.Query(ctx, foodLogsTable, q)
	if err != nil {
		return nil, storeError("get food log", err)
	}
	return decodeOne[models.FoodLog](body, "get food log")
}

func (r *foodLogRepository) List(ctx context.Context, userID string, filter models.FoodLogFilter) ([]models.FoodLog, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	if filter.StartDate != nil {
		q.Add("meal_time", "gte."+timestamp(*filter.StartDate))
	}
	if filter.EndDate != nil {
		q.Add("meal_time", "lte."+timestamp(*filter.EndDate))
	}
	if len(filter.Moods) > 0 {
		labels := make([]string, len(filter.Moods))
		for i, m := range filter.Moods {
			labels[i] = string(m)
		}
		q.Set("moods", "ov.{"+strings.Join(labels, ",")+"}")
	}
	if filter.FoodName != "" {
		q.Set("food_name", "ilike."+ilikePattern(filter.FoodName))
	}
	q.Set("order", "meal_time.desc")
	q.Set("limit", strconv.Itoa(clampLimit(filter.Limit)))
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	body, err := r.client.Query(ctx, foodLogsTable, q)
	if err != nil {
		return nil, storeError("list food logs", err)
	}
	return decodeMany[models.FoodLog](body)
}

func (r *foodLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.FoodLog, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Add("meal_time", "gte."+timestamp(start))
	q.Add("meal_time", "lte."+timestamp(end))
	q.Set("order", "meal_time.desc")

	body, err := r.client.Query(ctx, foodLogsTable, q)
	if err != nil {
		return nil, storeError("fetch food logs", err)
	}
	return decodeMany[models.FoodLog](body)
}

func (r *foodLogRepository) Update(ctx context.Context, userID, id string, columns map[string]interface{}) (*models.FoodLog, error) {
	data := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		if t, ok := v.(time.Time); ok {
			v = timestamp(t)
		}
		data[k] = v
	}
	data["updated_at"] = timestamp(time.Now())

	body, err := r.client.UpdateWhere(ctx, foodLogsTable, ownedBy(userID, id), data)
	if err != nil {
		return nil, storeError("update food log", err)
	}
	return decodeOne[models.FoodLog](body, "update food log")
}

func (r *foodLogRepository) Delete(ctx context.Context, userID, id string) error {
	body, err := r.client.DeleteWhere(ctx, foodLogsTable, ownedBy(userID, id))
	if err != nil {
		return storeError("delete food log", err)
	}
	_, err = decodeOne[models.FoodLog](body, "delete food log")
	return err
}
