package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/foodmood/backend/internal/apierror"
	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/internal/service"
)

// FoodLogHandler handles /api/v1/food-logs
type FoodLogHandler struct {
	foodLogService service.FoodLogService
}

// NewFoodLogHandler creates a new food log handler
func NewFoodLogHandler(foodLogService service.FoodLogService) *FoodLogHandler {
	RegisterValidators()
	return &FoodLogHandler{foodLogService: foodLogService}
}

// CreateFoodLog handles POST /api/v1/food-logs
func (h *FoodLogHandler) CreateFoodLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindError(apierror.GetRequestID(c), err))
		return
	}

	log, err := h.foodLogService.CreateFoodLog(c.Request.Context(), uid, &req)
	if err != nil {
		writeServiceError(c, err, "Food log", "")
		return
	}
	respond(c, http.StatusCreated, log, "Food log created successfully")
}

// GetFoodLogs handles GET /api/v1/food-logs
func (h *FoodLogHandler) GetFoodLogs(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	q := &queryParser{c: c}
	filter := models.FoodLogFilter{
		StartDate: q.time("start_date"),
		EndDate:   q.time("end_date"),
		FoodName:  strings.TrimSpace(c.Query("food_name")),
		Limit:     q.int("limit", 1, maxListLimit),
		Offset:    q.int("offset", 0, maxOffset),
	}
	if raw := c.Query("moods"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			m := models.Mood(strings.TrimSpace(part))
			if !m.IsValid() {
				q.fail("moods", "contains an unknown mood: "+string(m), "mood")
				continue
			}
			filter.Moods = append(filter.Moods, m)
		}
	}
	if !q.done() {
		return
	}

	logs, err := h.foodLogService.ListFoodLogs(c.Request.Context(), uid, filter)
	if err != nil {
		writeServiceError(c, err, "Food log", "")
		return
	}
	if logs == nil {
		logs = []models.FoodLog{}
	}
	respond(c, http.StatusOK, logs, "")
}

// GetFoodLogStats handles GET /api/v1/food-logs/stats
func (h *FoodLogHandler) GetFoodLogStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	q := &queryParser{c: c}
	start, end := q.time("start_date"), q.time("end_date")
	if !q.done() {
		return
	}

	stats, err := h.foodLogService.GetFoodLogStats(c.Request.Context(), uid, start, end)
	if err != nil {
		writeServiceError(c, err, "Food log", "")
		return
	}
	respond(c, http.StatusOK, stats, "")
}

// GetFoodLog handles GET /api/v1/food-logs/:id
func (h *FoodLogHandler) GetFoodLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	log, err := h.foodLogService.GetFoodLog(c.Request.Context(), uid, id)
	if err != nil {
		writeServiceError(c, err, "Food log", id)
		return
	}
	respond(c, http.StatusOK, log, "")
}

// UpdateFoodLog handles PATCH /api/v1/food-logs/:id
func (h *FoodLogHandler) UpdateFoodLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req models.UpdateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.FromBindError(apierror.GetRequestID(c), err))
		return
	}

	log, err := h.foodLogService.UpdateFoodLog(c.Request.Context(), uid, id, &req)
	if err != nil {
		writeServiceError(c, err, "Food log", id)
		return
	}
	respond(c, http.StatusOK, log, "Food log updated successfully")
}

// DeleteFoodLog handles DELETE /api/v1/food-logs/:id
func (h *FoodLogHandler) DeleteFoodLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.foodLogService.DeleteFoodLog(c.Request.Context(), uid, id); err != nil {
		writeServiceError(c, err, "Food log", id)
		return
	}
	respond(c, http.StatusOK, nil, "Food log deleted successfully")
}
