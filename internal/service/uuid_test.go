package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidateID(t *testing.T) {
	v7, err := uuid.NewV7()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"v4", uuid.NewString(), false},
		{"v7", v7.String(), false},
		{"uppercase", "F47AC10B-58CC-4372-A567-0E02B2C3D479", false},
		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
		{"truncated", "f47ac10b-58cc-4372-a567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}
