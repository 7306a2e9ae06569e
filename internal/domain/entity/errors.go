package entity

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAuth marks a page that offers no authentication affordance
// the detector can drive. Non-fatal: the pipeline continues. The message is
// surfaced verbatim in AuthResult.Error, hence the capitalization.
var ErrUnsupportedAuth = errors.New("Unsupported authentication method")

// StageError wraps a failure with the identity of the pipeline stage that
// produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
