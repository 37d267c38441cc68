package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/internal/service"
)

// InsightsHandler handles insights-related HTTP requests
type InsightsHandler struct {
	insightService service.InsightService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightService service.InsightService) *InsightsHandler {
	return &InsightsHandler{insightService: insightService}
}

// GetInsights handles GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	q := &queryParser{c: c}
	var filter models.InsightFilter
	if raw := c.Query("insight_type"); raw != "" {
		t := models.InsightType(raw)
		if t.IsValid() {
			filter.Type = &t
		} else {
			q.fail("insight_type", "must be one of weekly, monthly, pattern, trend", "invalid_value")
		}
	}
	filter.IsRead = q.bool("is_read")
	filter.StartDate = q.time("start_date")
	filter.EndDate = q.time("end_date")
	filter.Limit = q.int("limit", 1, maxListLimit)
	filter.Offset = q.int("offset", 0, maxOffset)
	if !q.done() {
		return
	}

	list, err := h.insightService.GetInsights(c.Request.Context(), uid, filter)
	if err != nil {
		writeServiceError(c, err, "Insight", "")
		return
	}
	if list == nil {
		list = []models.Insight{}
	}
	respond(c, http.StatusOK, list, "")
}

// GetInsight handles GET /api/v1/insights/:id
func (h *InsightsHandler) GetInsight(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	insight, err := h.insightService.GetInsight(c.Request.Context(), uid, id)
	if err != nil {
		writeServiceError(c, err, "Insight", id)
		return
	}
	respond(c, http.StatusOK, insight, "")
}

// MarkAsRead handles PUT /api/v1/insights/:id/read
func (h *InsightsHandler) MarkAsRead(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	insight, err := h.insightService.MarkInsightRead(c.Request.Context(), uid, id)
	if err != nil {
		writeServiceError(c, err, "Insight", id)
		return
	}
	respond(c, http.StatusOK, insight, "Insight marked as read")
}

// DeleteInsight handles DELETE /api/v1/insights/:id
func (h *InsightsHandler) DeleteInsight(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.insightService.DeleteInsight(c.Request.Context(), uid, id); err != nil {
		writeServiceError(c, err, "Insight", id)
		return
	}
	respond(c, http.StatusOK, nil, "Insight deleted successfully")
}

// GenerateWeekly handles POST /api/v1/insights/generate/weekly
func (h *InsightsHandler) GenerateWeekly(c *gin.Context) {
	h.generate(c, models.InsightTypeWeekly)
}

// GenerateMonthly handles POST /api/v1/insights/generate/monthly
func (h *InsightsHandler) GenerateMonthly(c *gin.Context) {
	h.generate(c, models.InsightTypeMonthly)
}

// GeneratePatterns handles POST /api/v1/insights/generate/patterns
func (h *InsightsHandler) GeneratePatterns(c *gin.Context) {
	h.generate(c, models.InsightTypePattern)
}

// generate answers 201 with the new insight, or 200 with only a message when
// there is not enough data yet.
func (h *InsightsHandler) generate(c *gin.Context, kind models.InsightType) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.insightService.Generate(c.Request.Context(), uid, kind)
	if err != nil {
		writeServiceError(c, err, "Insight", "")
		return
	}

	if !result.Generated() {
		logger.Ctx(c.Request.Context()).Debug("insight not generated",
			logger.String("insight_type", string(kind)),
			logger.Int("found", result.Found),
		)
		respond(c, http.StatusOK, nil, result.Message)
		return
	}
	respond(c, http.StatusCreated, result.Insight, result.Message)
}
