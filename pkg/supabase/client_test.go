package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestClient_QuerySendsFiltersAndKeys(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	q := url.Values{}
	q.Add("meal_time", "gte.2025-01-01T00:00:00Z")
	q.Add("meal_time", "lte.2025-01-08T00:00:00Z")

	body, err := c.Query(context.Background(), "food_logs", q)
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if string(body) != "[]" {
		t.Errorf("expected [], got %s", body)
	}
	if gotPath != "/rest/v1/food_logs" {
		t.Errorf("expected path /rest/v1/food_logs, got %s", gotPath)
	}
	parsed, _ := url.ParseQuery(gotQuery)
	if len(parsed["meal_time"]) != 2 {
		t.Errorf("expected two meal_time filters, got %v", parsed["meal_time"])
	}
	if gotKey != "service-key" || gotAuth != "Bearer service-key" {
		t.Errorf("unexpected auth headers: apikey=%q auth=%q", gotKey, gotAuth)
	}
}

func TestClient_InsertAsksForRepresentation(t *testing.T) {
	var prefer, contentType, payload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		payload = string(b)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Insert(context.Background(), "insights", map[string]string{"title": "Weekly"})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if prefer != "return=representation" {
		t.Errorf("expected Prefer return=representation, got %q", prefer)
	}
	if contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", contentType)
	}
	if payload != `{"title":"Weekly"}` {
		t.Errorf("unexpected payload %s", payload)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		unavailable bool
	}{
		{"bad request", http.StatusBadRequest, false},
		{"conflict", http.StatusConflict, false},
		{"too many requests", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k").Query(context.Background(), "food_logs", nil)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if IsUnavailable(err) != tt.unavailable {
				t.Errorf("expected IsUnavailable=%v for %d", tt.unavailable, tt.status)
			}
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL, "k").Query(context.Background(), "food_logs", nil)
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	if !IsUnavailable(err) {
		t.Errorf("expected transport failure to be unavailable: %v", err)
	}
}

func TestClient_VerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer user-jwt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"user-1","email":"a@b.c"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	user, err := c.VerifyToken(context.Background(), "user-jwt")
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@b.c" {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := c.VerifyToken(context.Background(), "bad"); err == nil {
		t.Error("expected error for rejected token")
	}
}
