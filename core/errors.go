package core

import "errors"

// Error kinds raised by the containers and models. Callers match them with errors.Is;
// the wrapped message carries the offending lengths, columns or keys.
var (
	// ErrShape reports a malformed backing array at construction.
	ErrShape = errors.New("shape error")

	// ErrSchema reports a missing or ill-typed required column.
	ErrSchema = errors.New("schema error")

	// ErrLengthMismatch reports a joint operation between containers of differing lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrFramerateMismatch reports a joint operation between containers of differing framerates.
	ErrFramerateMismatch = errors.New("framerate mismatch")

	// ErrRange reports a slice or index request that resolves to an empty or invalid span.
	ErrRange = errors.New("range error")

	// ErrNotFitted reports a model query made before the model was fitted.
	ErrNotFitted = errors.New("model not fitted")

	// ErrKey reports a lookup of an identifier or label not present in a mapping.
	ErrKey = errors.New("key error")

	// ErrInvalidArgument reports an argument outside its accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")
)
