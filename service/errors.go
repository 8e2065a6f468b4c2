package service

import (
	"errors"
	"fmt"
	"leadboard/storage"
)

var (
	// ErrNotFound is returned when the entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the entity belongs to another user
	ErrForbidden = errors.New("forbidden")
	// ErrStoreUnavailable wraps every persistence failure
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeError maps a storage failure onto the service taxonomy
func storeError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
