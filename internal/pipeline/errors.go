package pipeline

import "errors"

var (
	// ErrNoForm is returned when a stage needs a form definition and the
	// job has neither a form nor a source to load one from.
	ErrNoForm = errors.New("job has no form definition")

	// ErrStageOrder is returned when a stage runs before the stage that
	// produces its input.
	ErrStageOrder = errors.New("pipeline stage input missing")
)
