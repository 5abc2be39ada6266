package cart

import (
	"errors"
	"fmt"
)

// ErrCollaborator matches every failure raised by an external collaborator.
var ErrCollaborator = errors.New("cart collaborator failure")

var (
	// ErrMissingCatalog is returned by New when no catalog lookup is supplied.
	ErrMissingCatalog = errors.New("catalog lookup is required")

	// ErrMissingStore is returned by Save when no persistence adapter is configured.
	ErrMissingStore = errors.New("persistence adapter is required to save a cart")

	// ErrInvalidAddress is returned by CustomerAddress.Validate.
	ErrInvalidAddress = errors.New("invalid customer address")
)

// CollaboratorError wraps an infrastructure failure of a named collaborator.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCollaborator) true for every collaborator error.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}

func collaboratorError(name string, err error) error {
	return &CollaboratorError{Collaborator: name, Err: err}
}
