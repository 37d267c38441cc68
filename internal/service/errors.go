package service

import (
	"errors"

	"github.com/JonnyWalker81/foodmood/backend/internal/repository"
)

var (
	// ErrNotFound is returned when the record does not exist or belongs to
	// someone else
	ErrNotFound = repository.ErrNotFound
	// ErrStoreUnavailable is returned as-is from the repositories when the
	// store cannot be reached
	ErrStoreUnavailable = repository.ErrUnavailable
	// ErrPersistence wraps a failed insight write. The store error stays
	// reachable through errors.Is and errors.As.
	ErrPersistence = errors.New("failed to persist insight")
	// ErrInvalidID indicates a malformed path id
	ErrInvalidID = errors.New("invalid id")
	// ErrEmptyUpdate indicates a PATCH that changes nothing
	ErrEmptyUpdate = errors.New("no fields to update")
	// ErrUnknownInsightType indicates a type that cannot be generated
	ErrUnknownInsightType = errors.New("unknown insight type")
)
