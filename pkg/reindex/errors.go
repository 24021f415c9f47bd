package reindex

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrUnknownNode is returned when an edge references a node that is not in
	// the node ordering.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidOrder is returned when an explicit node or edge ordering does
	// not enumerate the graph exactly once.
	ErrInvalidOrder = errors.New("invalid order")
)

// MappingError provides structured error information for index mapping.
type MappingError struct {
	Op       string // "index" for node orderings, "edges" for edge lists
	Node     string // canonical key of the offending node or edge, if any
	Position int    // position in the offending sequence, -1 if not applicable
	Cause    error
	Context  string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	msg := e.Op
	if e.Node != "" {
		msg += fmt.Sprintf(" %q", e.Node)
	}
	if e.Position >= 0 {
		msg += fmt.Sprintf(" at %d", e.Position)
	}
	if e.Context != "" {
		msg += fmt.Sprintf(" (%s)", e.Context)
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

func unknownNode(op, node string, pos int) error {
	return &MappingError{Op: op, Node: node, Position: pos, Cause: ErrUnknownNode}
}

func invalidOrder(op, node string, pos int, context string) error {
	return &MappingError{Op: op, Node: node, Position: pos, Cause: ErrInvalidOrder, Context: context}
}

// IsUnknownNode returns true if the error is an unknown node error.
func IsUnknownNode(err error) bool {
	return errors.Is(err, ErrUnknownNode)
}

// IsInvalidOrder returns true if the error is an invalid order error.
func IsInvalidOrder(err error) bool {
	return errors.Is(err, ErrInvalidOrder)
}
