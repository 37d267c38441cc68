package models

import (
	"encoding/json"
	"time"
)

// InsightType represents the type of insight
type InsightType string

const (
	InsightTypeWeekly  InsightType = "weekly"
	InsightTypeMonthly InsightType = "monthly"
	InsightTypePattern InsightType = "pattern"
	InsightTypeTrend   InsightType = "trend"
)

// IsValid reports whether t is a known insight type.
func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypeWeekly, InsightTypeMonthly, InsightTypePattern, InsightTypeTrend:
		return true
	}
	return false
}

// Insight is a generated report over a window of food logs.
// Data holds the statistics/patterns/educational/trends payload as stored.
type Insight struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	InsightType InsightType     `json:"insight_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	IsRead      bool            `json:"is_read"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InsightFilter narrows an insight listing. Dates apply to created_at.
type InsightFilter struct {
	Type      *InsightType
	IsRead    *bool
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// GenerationOutcome tags the result of an insight generation request.
type GenerationOutcome string

const (
	OutcomeGenerated     GenerationOutcome = "generated"
	OutcomeNotEnoughData GenerationOutcome = "not_enough_data"
)

// GenerationResult is either a persisted insight or a "not enough data"
// notice. Operational failures are returned as errors instead.
type GenerationResult struct {
	Outcome  GenerationOutcome `json:"outcome"`
	Message  string            `json:"message"`
	Insight  *Insight          `json:"insight,omitempty"`
	Required int               `json:"required,omitempty"`
	Found    int               `json:"found,omitempty"`
}

// Generated reports whether an insight was produced.
func (r *GenerationResult) Generated() bool {
	return r != nil && r.Outcome == OutcomeGenerated && r.Insight != nil
}
