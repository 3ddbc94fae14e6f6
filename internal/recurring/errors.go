package recurring

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownFrequency = errors.New("frequency must be one of daily, weekly, monthly, yearly")

	// ErrAlreadyGenerated is returned when an occurrence already has an instance.
	ErrAlreadyGenerated = errors.New("occurrence already generated")
	// ErrInactive is returned when a template was deactivated before generation.
	ErrInactive = errors.New("template is inactive")
)

// GenerationError is the failure of one template during a tick. It never
// aborts the rest of the batch and the occurrence stays eligible for retry.
type GenerationError struct {
	TemplateID int64
	DueDate    time.Time
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating template %d for %s: %v", e.TemplateID, e.DueDate.Format(time.DateOnly), e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
