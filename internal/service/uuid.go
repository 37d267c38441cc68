package service

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateID checks that id is a UUID. Both stores key rows by uuid, so a
// malformed id can never match and is rejected before any round trip.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
