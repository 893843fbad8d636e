package tracks

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports input that was rejected by a mutating call. The
// layer state is left as it was before the call.
type ValidationError struct {
	Field string // data, properties, graph, color_by, track_colors, ...
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Warning is a recoverable condition. It is delivered to listeners and logged,
// but the operation that raised it still completes.
type Warning struct {
	Msg string
}

func (w *Warning) Error() string { return w.Msg }
