package models

import (
	"errors"
	"fmt"
)

// Common validation errors for models.
var (
	// ErrNameRequired indicates a required name field is empty.
	ErrNameRequired = errors.New("name is required")

	// ErrShowIDRequired indicates a required show ID field is zero.
	ErrShowIDRequired = errors.New("show_id is required")

	// ErrIdentifierRequired indicates a required identifier field is empty.
	ErrIdentifierRequired = errors.New("identifier is required")

	// ErrEpisodeIDRequired indicates a required episode ID field is zero.
	ErrEpisodeIDRequired = errors.New("episode_id is required")

	// ErrSeasonIDRequired indicates a required season ID field is zero.
	ErrSeasonIDRequired = errors.New("season_id is required")

	// ErrTitleRequired indicates a required release title field is empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidScheme indicates an identifier scheme outside the known set.
	ErrInvalidScheme = errors.New("invalid identifier scheme")

	// ErrTaskNameRequired indicates a required task name field is empty.
	ErrTaskNameRequired = errors.New("task name is required")
)

// ComparisonError is raised when two entities cannot be ordered because
// their identifier schemes are incompatible. It is always surfaced
// rather than guessing an order, because a guessed order corrupts
// latest-release and supersession decisions.
type ComparisonError struct {
	Left        string
	LeftScheme  IdentifierScheme
	Right       string
	RightScheme IdentifierScheme
}

// Error implements the error interface.
func (e *ComparisonError) Error() string {
	return fmt.Sprintf("cannot compare %s (%s) with %s (%s)",
		e.Left, e.LeftScheme, e.Right, e.RightScheme)
}

// ConflictError is raised when an operation would violate an identity
// invariant: an alternate name already attached to a different show, or
// an identifier whose scheme contradicts a show's locked scheme.
type ConflictError struct {
	Subject string
	Detail  string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Subject, e.Detail)
}

// NotFoundError is raised by strict lookups and removal operations when
// nothing matched the given name or identifier.
type NotFoundError struct {
	Kind string
	Key  string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
