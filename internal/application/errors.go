package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound           = errors.New("not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrOutOfRange         = errors.New("out of range")
	ErrDisplayFailed      = errors.New("display failed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OutOfRangeError is returned when a jump target is outside [1, Total]
type OutOfRangeError struct {
	Index int
	Total int
}

func (e *OutOfRangeError) Error() string {
	if e.Total == 0 {
		return fmt.Sprintf("plot %d out of range: no plots", e.Index)
	}
	return fmt.Sprintf("plot %d out of range [1, %d]", e.Index, e.Total)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CatalogError represents a failure to reach or query the plot catalog
type CatalogError struct {
	Op  string
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *CatalogError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}
