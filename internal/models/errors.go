package models

import (
	"errors"
	"fmt"
)

// ValidationError represents a validation error with field and message.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Common validation errors for models.
var (
	// ErrNameRequired indicates a required name field is empty.
	ErrNameRequired = errors.New("name is required")

	// ErrInvalidTargetType indicates an invalid acquisition-target type.
	ErrInvalidTargetType = errors.New("invalid target type: must be 'radarr' or 'sonarr'")

	// ErrInstanceRequired indicates a rule has no target instance set.
	ErrInstanceRequired = errors.New("target_instance_id is required")

	// ErrBaseURLRequired indicates a required base URL field is empty.
	ErrBaseURLRequired = errors.New("base_url is required")

	// ErrRuleNotFound indicates a router rule was not found.
	ErrRuleNotFound = errors.New("router rule not found")

	// ErrInstanceNotFound indicates a target instance was not found.
	ErrInstanceNotFound = errors.New("instance not found")
)
