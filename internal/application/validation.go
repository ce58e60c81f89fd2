package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "plotDir" -> "plot directory")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"format":   "format",
		"filename": "file name",
		"plotDir":  "plot directory",
		"position": "position",
		"keys":     "key script",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidatePosition checks that a 1-based position is positive.
// Upper bounds depend on the catalog and are checked by the caller.
func ValidatePosition(fieldName string, position int) error {
	if position < 1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be >= 1, got: %d", formatFieldName(fieldName), position),
		}
	}
	return nil
}
