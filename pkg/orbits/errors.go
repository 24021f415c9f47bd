package orbits

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/reindex"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
)

// Sentinel errors. All failures returned by this package wrap one of them.
var (
	ErrUnknownNode     = reindex.ErrUnknownNode
	ErrInvalidOrder    = reindex.ErrInvalidOrder
	ErrUnsupportedMode = engine.ErrUnsupportedMode
	ErrUnsupportedSize = engine.ErrUnsupportedSize
	ErrSelfLoop        = engine.ErrSelfLoop
	ErrDuplicateEdge   = engine.ErrDuplicateEdge
	ErrArityMismatch   = validation.ErrArityMismatch
	ErrTooLarge        = validation.ErrTooLarge

	// ErrEngineFailure is returned when the counting engine fails or returns
	// a matrix of the wrong shape. It signals an internal inconsistency the
	// caller cannot fix by changing its input.
	ErrEngineFailure = errors.New("counting engine failure")
)

// CountError provides structured error information for counting calls.
type CountError struct {
	Op    string // "count" or "batch"
	Mode  engine.Mode
	Size  int
	Cause error
}

// Error implements the error interface.
func (e *CountError) Error() string {
	return fmt.Sprintf("%s %s/%d: %v", e.Op, e.Mode, e.Size, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CountError) Unwrap() error {
	return e.Cause
}

// BatchError identifies the graph of a batch that failed.
type BatchError struct {
	Index int
	Cause error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("graph %d: %v", e.Index, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BatchError) Unwrap() error {
	return e.Cause
}

// IsEngineFailure returns true if the error is an engine failure.
func IsEngineFailure(err error) bool {
	return errors.Is(err, ErrEngineFailure)
}

// errorKind classifies err for metrics labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrEngineFailure):
		return "engine_failure"
	case errors.Is(err, ErrUnsupportedMode):
		return "unsupported_mode"
	case errors.Is(err, ErrUnsupportedSize):
		return "unsupported_size"
	case errors.Is(err, ErrArityMismatch):
		return "arity_mismatch"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, ErrInvalidOrder):
		return "invalid_order"
	case errors.Is(err, ErrSelfLoop):
		return "self_loop"
	case errors.Is(err, ErrDuplicateEdge):
		return "duplicate_edge"
	default:
		return "unknown"
	}
}

func engineFailure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEngineFailure, fmt.Sprintf(format, args...))
}
