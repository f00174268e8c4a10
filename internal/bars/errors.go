package bars

import "errors"

// Error kinds surfaced by the engine and its collaborators. Wrap the
// underlying cause with %w so callers can still errors.Is against the kind.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrStoreFailure  = errors.New("store failure")
	ErrStrategyFault = errors.New("strategy fault")
)
