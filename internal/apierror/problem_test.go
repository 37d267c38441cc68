package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestProblemDetailsJSON(t *testing.T) {
	retryAfter := 30
	problem := &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "Field validation failed",
		Instance:    "/api/v1/food-logs",
		RequestID:   "req-abc123",
		UserMessage: "Please fix the errors",
		RetryAfter:  &retryAfter,
		Errors: []FieldError{
			{Field: "food_name", Message: "is required", Code: "required"},
			{Field: "moods", Message: "must contain at least 1 item(s)", Code: "min"},
		},
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	expected := map[string]interface{}{
		"type":         TypeValidation,
		"title":        TitleValidation,
		"status":       float64(http.StatusBadRequest),
		"detail":       "Field validation failed",
		"instance":     "/api/v1/food-logs",
		"request_id":   "req-abc123",
		"user_message": "Please fix the errors",
		"retry_after":  float64(30),
	}
	for k, v := range expected {
		if result[k] != v {
			t.Errorf("Expected %s=%v, got %v", k, v, result[k])
		}
	}
	if errs, ok := result["errors"].([]interface{}); !ok || len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", result["errors"])
	}
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&ProblemDetails{Type: TypeInternal, Title: TitleInternal, Status: 500})
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	for _, field := range []string{"detail", "instance", "request_id", "user_message", "retry_after", "action", "errors"} {
		if _, exists := result[field]; exists {
			t.Errorf("Expected field %q to be omitted when empty", field)
		}
	}
}

func TestWriteProblem(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/insights/generate/weekly", nil)

	WriteProblem(c, NewRateLimitError("req-456", 60))

	if got := w.Header().Get("Content-Type"); got != ContentTypeProblemJSON {
		t.Errorf("Expected Content-Type=%q, got %q", ContentTypeProblemJSON, got)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Expected Retry-After=60, got %q", got)
	}
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response body: %v", err)
	}
	if result["instance"] != "/api/v1/insights/generate/weekly" {
		t.Errorf("Expected instance to default to request path, got %v", result["instance"])
	}
}

func TestWriteProblemNoRetryAfterWhenNil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewInternalError("req-789"))

	if got := w.Header().Get("Retry-After"); got != "" {
		t.Errorf("Expected no Retry-After header, got %q", got)
	}
}

func TestAbortStopsChain(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Abort(c, NewUnauthorizedError("req-1", ""))

	if !c.IsAborted() {
		t.Error("Expected context to be aborted")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestNewInternalErrorHidesDetails(t *testing.T) {
	problem := NewInternalError("req-xyz")
	if problem.Detail != "An unexpected error occurred" {
		t.Errorf("Expected generic detail, got %q", problem.Detail)
	}
	if problem.UserMessage == "" {
		t.Error("Expected user_message to be set")
	}
}

func TestNewNotFoundError(t *testing.T) {
	problem := NewNotFoundError("req-123", "Insight", "ins-456")
	if problem.Status != http.StatusNotFound || problem.Type != TypeNotFound {
		t.Errorf("Unexpected problem %+v", problem)
	}
	if problem.Detail != "Insight with ID 'ins-456' was not found" {
		t.Errorf("Unexpected detail: %q", problem.Detail)
	}
	if problem.UserMessage != "That insight could not be found" {
		t.Errorf("Unexpected user message: %q", problem.UserMessage)
	}
}

func TestNewUnauthorizedError(t *testing.T) {
	problem := NewUnauthorizedError("req-abc", "Invalid or expired token")
	if problem.Status != http.StatusUnauthorized || problem.Action != "authenticate" {
		t.Errorf("Unexpected problem %+v", problem)
	}
	if problem.Detail != "Invalid or expired token" {
		t.Errorf("Expected custom detail, got %q", problem.Detail)
	}
	if NewUnauthorizedError("", "").Detail == "" {
		t.Error("Expected default detail")
	}
}

func TestNewInvalidUUIDError(t *testing.T) {
	problem := NewInvalidUUIDError("req-ghi", "id", "not-a-uuid")
	if problem.Type != TypeInvalidUUID || problem.Status != http.StatusBadRequest {
		t.Errorf("Unexpected problem %+v", problem)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "id" {
		t.Errorf("Unexpected field errors %+v", problem.Errors)
	}
}

func TestNewServiceUnavailableError(t *testing.T) {
	problem := NewServiceUnavailableError("req-mno", 30)
	if problem.Status != http.StatusServiceUnavailable || problem.Type != TypeStoreUnavailable {
		t.Errorf("Unexpected problem %+v", problem)
	}
	if problem.RetryAfter == nil || *problem.RetryAfter != 30 {
		t.Errorf("Expected retry_after=30, got %v", problem.RetryAfter)
	}
}

type bindTarget struct {
	FoodName string   `json:"food_name" validate:"required,max=5"`
	Moods    []string `json:"moods" validate:"required,min=1"`
}

func TestFromBindError_ValidationErrors(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(bindTarget{FoodName: "Spaghetti", Moods: []string{}})
	problem := FromBindError("req-1", err)

	if problem.Type != TypeValidation {
		t.Fatalf("Expected validation problem, got %q", problem.Type)
	}
	if len(problem.Errors) != 2 {
		t.Fatalf("Expected 2 field errors, got %+v", problem.Errors)
	}
	if problem.Errors[0].Field != "food_name" || problem.Errors[0].Code != "max" {
		t.Errorf("Unexpected first error %+v", problem.Errors[0])
	}
	if problem.Errors[1].Field != "moods" || problem.Errors[1].Code != "min" {
		t.Errorf("Unexpected second error %+v", problem.Errors[1])
	}
}

func TestFromBindError_Malformed(t *testing.T) {
	problem := FromBindError("req-2", errors.New("unexpected EOF"))
	if problem.Type != TypeBadRequest {
		t.Errorf("Expected bad request, got %q", problem.Type)
	}
	if problem.Detail != "unexpected EOF" {
		t.Errorf("Unexpected detail %q", problem.Detail)
	}
}

func TestGetRequestID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("request_id", "ctx-req-123")
	if got := GetRequestID(c); got != "ctx-req-123" {
		t.Errorf("Expected ctx-req-123, got %q", got)
	}

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c2.Request.Header.Set("X-Request-ID", "header-req-456")
	if got := GetRequestID(c2); got != "header-req-456" {
		t.Errorf("Expected header-req-456, got %q", got)
	}
}
