package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/pkg/supabase"
)

const insightsTable = "insights"

type insightRepository struct {
	client *supabase.Client
}

// NewSupabaseInsightRepository creates an insight repository over PostgREST
func NewSupabaseInsightRepository(client *supabase.Client) InsightRepository {
	return &insightRepository{client: client}
}

func (r *insightRepository) Create(ctx context.Context, insight *models.Insight) (*models.Insight, error) {
	data := map[string]interface{}{
		"user_id":      insight.UserID,
		"insight_type": insight.InsightType,
		"title":        insight.Title,
		"description":  insight.Description,
		"data":         insight.Data,
		"period_start": timestamp(insight.PeriodStart),
		"period_end":   timestamp(insight.PeriodEnd),
		"is_read":      false,
	}

	body, err := r.client.Insert(ctx, insightsTable, data)
	if err != nil {
		return nil, storeError("create insight", err)
	}

	created, err := decodeOne[models.Insight](body, "create insight")
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("no insight returned")
	}
	return created, err
}

func (r *insightRepository) GetByID(ctx context.Context, userID, id string) (*models.Insight, error) {
	q := ownedBy(userID, id)
	q.Set("limit", "1")

	body, err := r.client.Query(ctx, insightsTable, q)
	if err != nil {
		return nil, storeError("get insight", err)
	}
	return decodeOne[models.Insight](body, "get insight")
}

func (r *insightRepository) List(ctx context.Context, userID string, filter models.InsightFilter) ([]models.Insight, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	if filter.Type != nil {
		q.Set("insight_type", "eq."+string(*filter.Type))
	}
	if filter.IsRead != nil {
		q.Set("is_read", "eq."+strconv.FormatBool(*filter.IsRead))
	}
	if filter.StartDate != nil {
		q.Add("created_at", "gte."+timestamp(*filter.StartDate))
	}
	if filter.EndDate != nil {
		q.Add("created_at", "lte."+timestamp(*filter.EndDate))
	}
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(clampLimit(filter.Limit)))
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	body, err := r.client.Query(ctx, insightsTable, q)
	if err != nil {
		return nil, storeError("list insights", err)
	}
	return decodeMany[models.Insight](body)
}

func (r *insightRepository) MarkRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	body, err := r.client.UpdateWhere(ctx, insightsTable, ownedBy(userID, id), map[string]interface{}{
		"is_read": true,
	})
	if err != nil {
		return nil, storeError("mark insight read", err)
	}
	return decodeOne[models.Insight](body, "mark insight read")
}

func (r *insightRepository) Delete(ctx context.Context, userID, id string) error {
	body, err := r.client.DeleteWhere(ctx, insightsTable, ownedBy(userID, id))
	if err != nil {
		return storeError("delete insight", err)
	}
	_, err = decodeOne[models.Insight](body, "delete insight")
	return err
}
