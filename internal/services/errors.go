package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrNoData      = errors.New("no snapshot loaded")
	ErrUnknownKind = errors.New("unknown kind")
)

// NotFoundError is returned by lookups when no snapshot is loaded or the id is absent.
type NotFoundError struct {
	Kind string
	ID   uint32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
