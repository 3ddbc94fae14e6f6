package ledger

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrSameParty       = errors.New("payer and recipient must be different users")
	ErrNoParticipants  = errors.New("at least one participant other than the creator is required")
	ErrUnknownGroup    = errors.New("group id is required")
	ErrUnknownUser     = errors.New("user id is required")
	ErrNotMember       = errors.New("user is not a member of the group")
	ErrDescriptionSize = errors.New("description must be at most 255 characters")
)

// ValidationError reports user input that was rejected. Err carries the reason
// and is safe to show to the caller.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
