package repository

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/JonnyWalker81/foodmood/backend/pkg/supabase"
)

// storeError wraps a Supabase failure, tagging outages with ErrUnavailable.
func storeError(op string, err error) error {
	if supabase.IsUnavailable(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// ownedBy builds the id + user_id filter every single-row call uses.
func ownedBy(userID, id string) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+userID)
	return q
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ilikePattern escapes LIKE wildcards for a case-insensitive contains match.
func ilikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "*" + r.Replace(s) + "*"
}

// decodeOne unmarshals a representation array and returns its first row.
func decodeOne[T any](body []byte, op string) (*T, error) {
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to %s: %w", op, ErrNotFound)
	}
	return &rows[0], nil
}

func decodeMany[T any](body []byte) ([]T, error) {
	rows := []T{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return rows, nil
}
