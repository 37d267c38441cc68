package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentTypeProblemJSON is the RFC 9457 media type.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes problem with the problem+json content type and a
// Retry-After header when RetryAfter is set.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// Abort writes problem and stops the handler chain.
func Abort(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID returns the id set by the request logger, falling back to
// the X-Request-ID header.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

func NewValidationError(requestID string, fieldErrors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "One or more fields failed validation",
		RequestID:   requestID,
		UserMessage: "Please check your entry and try again",
		Errors:      fieldErrors,
	}
}

// FromBindError turns a gin binding failure into a problem. Validator
// failures are reported per field; anything else (bad JSON, wrong types)
// becomes a plain bad request.
func FromBindError(requestID string, err error) *ProblemDetails {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewBadRequestError(requestID, err.Error(), "The request body could not be read")
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   jsonFieldName(fe),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return NewValidationError(requestID, out)
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	ns := fe.Namespace()
	// Namespace is "Struct.Field[0]"; keep the indexed form for dive errors.
	if i := strings.Index(ns, "."); i >= 0 {
		name = ns[i+1:]
	}
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "url":
		return "must be a valid URL"
	case "mood":
		return "is not a recognised mood"
	case "meal_type":
		return "must be one of breakfast, lunch, dinner, snack"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeNotFound,
		Title:       TitleNotFound,
		Status:      http.StatusNotFound,
		Detail:      fmt.Sprintf("%s with ID '%s' was not found", resource, id),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("That %s could not be found", strings.ToLower(resource)),
	}
}

func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      fmt.Sprintf("Rate limit exceeded, retry after %d seconds", retryAfter),
		RequestID:   requestID,
		UserMessage: "You're doing that a lot. Please wait a moment.",
		RetryAfter:  &retryAfter,
	}
}

// NewInternalError hides the cause from the client; log it server side.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}

func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

func NewUnauthorizedError(requestID, detail string) *ProblemDetails {
	if detail == "" {
		detail = "Authentication is required to access this resource"
	}
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       TitleUnauthorized,
		Status:      http.StatusUnauthorized,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "Please sign in to continue",
		Action:      "authenticate",
	}
}

func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInvalidUUID,
		Title:       TitleInvalidUUID,
		Status:      http.StatusBadRequest,
		Detail:      fmt.Sprintf("Invalid UUID format for field '%s': '%s'", field, value),
		RequestID:   requestID,
		UserMessage: "Invalid identifier format",
		Errors: []FieldError{
			{Field: field, Message: "must be a valid UUID", Code: "invalid_uuid"},
		},
	}
}

// NewServiceUnavailableError is returned when the log store cannot be reached.
func NewServiceUnavailableError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeStoreUnavailable,
		Title:       TitleServiceUnavailable,
		Status:      http.StatusServiceUnavailable,
		Detail:      "The food log store is temporarily unavailable",
		RequestID:   requestID,
		UserMessage: "We couldn't reach your journal right now. Please try again shortly.",
		RetryAfter:  &retryAfter,
	}
}
