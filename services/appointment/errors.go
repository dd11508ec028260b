package appointment

import (
	"fmt"

	"medagenda/models"
)

// ValidationError signals a missing or malformed request field, an inverted
// time range, or an attempt to schedule into the past.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError signals that the candidate window collides with existing
// appointments; it carries the colliding records for the client to render.
type ConflictError struct {
	Message   string
	Conflicts []models.Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (%d conflicting appointments)", e.Message, len(e.Conflicts))
}

// NotFoundError signals that no appointment exists for the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "appointment " + e.ID + " not found"
}

// InvalidIDError signals a malformed appointment id; it short-circuits before
// any storage call.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return "invalid appointment id: " + e.ID
}
