package projection

import "errors"

var (
	// ErrFieldNotRequested is returned by generated Lookup accessors for fields missing from the response.
	ErrFieldNotRequested = errors.New("field was not requested")
	// ErrUnknownTypename is returned when an abstract value names a type the client does not know.
	ErrUnknownTypename = errors.New("unknown __typename")
)
