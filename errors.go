package multiview

import (
	"errors"
	"fmt"
)

// Scheduler errors.
var (
	// ErrUnknownView is returned when unregistering a view the scheduler
	// does not own.
	ErrUnknownView = errors.New("multiview: unknown view")

	// ErrNilElement is returned when registering a view without an element.
	ErrNilElement = errors.New("multiview: nil element")

	// ErrPanic wraps a panic recovered while rendering a view.
	ErrPanic = errors.New("multiview: panic during render")
)

// Stage is the part of a view's frame that failed.
type Stage int

const (
	// StageAllocate is the buffer size sync.
	StageAllocate Stage = iota
	// StageRender covers the scene render and the effect chain.
	StageRender
	// StageComposite covers drawing to the surface and the frame sink.
	StageComposite
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageAllocate:
		return "allocate"
	case StageRender:
		return "render"
	case StageComposite:
		return "composite"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ViewError reports a failed view in a frame.
type ViewError struct {
	Index int
	ID    string
	Stage Stage
	Err   error
}

// Error implements error.
func (e *ViewError) Error() string {
	return fmt.Sprintf("multiview: view %d (%s): %s: %v", e.Index, e.ID, e.Stage, e.Err)
}

// Unwrap returns the cause.
func (e *ViewError) Unwrap() error {
	return e.Err
}
