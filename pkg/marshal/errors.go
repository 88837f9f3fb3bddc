package marshal

import (
	"errors"
	"fmt"
)

// ErrStoreTooLarge is wrapped by an IOError when a credential store exceeds
// the configured read limit.
var ErrStoreTooLarge = errors.New("credential store exceeds size limit")

// DecodeError reports a configuration document that is not valid JSON for
// the requested shape.
type DecodeError struct {
	Shape string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("marshal: decode %s: %v", e.Shape, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IOError reports a credential store that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("marshal: read credential store %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
