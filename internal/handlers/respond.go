package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/foodmood/backend/internal/apierror"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/service"
)

// storeRetryAfter is the Retry-After sent when the store is unreachable.
const storeRetryAfter = 5

// envelope is the success body used by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

// userID returns the authenticated user or writes a 401.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString("user_id")
	if id == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), ""))
		return "", false
	}
	return id, true
}

// writeServiceError maps service errors onto problem responses.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, service.ErrInvalidID):
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "id", id))
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrEmptyUpdate):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Nothing to update"))
	case errors.Is(err, service.ErrUnknownInsightType):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Unknown insight type"))
	case errors.Is(err, service.ErrPersistence):
		logger.Ctx(c.Request.Context()).Error("failed to save insight", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.Ctx(c.Request.Context()).Error("store unavailable", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, storeRetryAfter))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// queryParser collects every bad query parameter before responding.
type queryParser struct {
	c      *gin.Context
	errors []apierror.FieldError
}

func (p *queryParser) fail(field, message, code string) {
	p.errors = append(p.errors, apierror.FieldError{Field: field, Message: message, Code: code})
}

func (p *queryParser) time(name string) *time.Time {
	raw := p.c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		p.fail(name, "must be a valid RFC3339 timestamp", "invalid_format")
		return nil
	}
	return &t
}

func (p *queryParser) bool(name string) *bool {
	raw := p.c.Query(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(name, "must be true or false", "invalid_type")
		return nil
	}
	return &b
}

func (p *queryParser) int(name string, min, max int) int {
	raw := p.c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		p.fail(name, "must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max), "out_of_range")
		return 0
	}
	return n
}

// done writes a validation problem if any parameter failed.
func (p *queryParser) done() bool {
	if len(p.errors) == 0 {
		return true
	}
	apierror.WriteProblem(p.c, apierror.NewValidationError(apierror.GetRequestID(p.c), p.errors))
	return false
}

const (
	maxListLimit = 100
	maxOffset    = 1_000_000
)
