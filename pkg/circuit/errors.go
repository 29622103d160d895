package circuit

import "errors"

// ErrBadElementValue is returned when an element's value is structurally
// invalid for the analysis being run (e.g. a non-positive resistance
// during AC stamping).
var ErrBadElementValue = errors.New("circuit: bad element value")

// ErrUnresolvedModel is returned by Finalize when a Switch or Diode
// references a .model name that was never defined.
var ErrUnresolvedModel = errors.New("circuit: unresolved model reference")
