// Package validation checks counting requests before any work is done and
// provides a fluent validator for configuration structs.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxBatchSize bounds the number of graphs in one batched call.
	MaxBatchSize = 1 << 20
)

// MaxNodes bounds the node count of an edge list header. It must match the
// lte tag on EdgeListHeader.Nodes.
const MaxNodes = 1 << 24

var (
	// ErrArityMismatch is returned when a batch's per-graph node orderings do
	// not line up with its graphs.
	ErrArityMismatch = errors.New("node orderings do not match graphs")

	// ErrTooLarge is returned when a request exceeds MaxBatchSize or MaxNodes.
	ErrTooLarge = errors.New("request too large")
)

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(batchArity, BatchRequest{})
}

// CountRequest is the (mode, size) pair of one counting call.
type CountRequest struct {
	Mode string `validate:"required,oneof=node edge"`
	Size int    `validate:"oneof=4 5"`
}

// BatchRequest describes a batched counting call. NodeOrders is only checked
// against Graphs when HasNodeOrders is set.
type BatchRequest struct {
	CountRequest
	Graphs        int `validate:"gte=0"`
	NodeOrders    int `validate:"gte=0"`
	HasNodeOrders bool
}

// EdgeListHeader is the "<n> <m>" line of a reference protocol input file.
type EdgeListHeader struct {
	Nodes int `validate:"gte=0,lte=16777216"`
	Edges int `validate:"gte=0"`
}

// ValidateCountRequest checks mode and size. Failures wrap
// engine.ErrUnsupportedMode or engine.ErrUnsupportedSize.
func ValidateCountRequest(mode engine.Mode, size int) error {
	return formatValidationError(validate.Struct(&CountRequest{Mode: string(mode), Size: size}))
}

// ValidateBatchRequest checks a batched call. graphs and nodeOrders are the
// lengths of the two slices; hasNodeOrders reports whether orderings were
// supplied at all. An arity failure wraps ErrArityMismatch.
func ValidateBatchRequest(mode engine.Mode, size, graphs, nodeOrders int, hasNodeOrders bool) error {
	if graphs > MaxBatchSize {
		return fmt.Errorf("%w: batch of %d graphs exceeds maximum %d", ErrTooLarge, graphs, MaxBatchSize)
	}
	req := &BatchRequest{
		CountRequest:  CountRequest{Mode: string(mode), Size: size},
		Graphs:        graphs,
		NodeOrders:    nodeOrders,
		HasNodeOrders: hasNodeOrders,
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateEdgeListHeader checks the header of a reference input file.
func ValidateEdgeListHeader(nodes, edges int) error {
	return formatValidationError(validate.Struct(&EdgeListHeader{Nodes: nodes, Edges: edges}))
}

func batchArity(sl validator.StructLevel) {
	req := sl.Current().Interface().(BatchRequest)
	if req.HasNodeOrders && req.NodeOrders != req.Graphs {
		sl.ReportError(req.NodeOrders, "NodeOrders", "NodeOrders", "arity", fmt.Sprint(req.Graphs))
	}
}

// formatValidationError converts validator errors to a more user-friendly
// format, wrapping the sentinel that matches the failing field.
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		switch field {
		case "Mode":
			return fmt.Errorf("%w: %q (want node or edge)", engine.ErrUnsupportedMode, e.Value())
		case "Size":
			return fmt.Errorf("%w: %v (want %d or %d)", engine.ErrUnsupportedSize, e.Value(),
				engine.MinGraphletSize, engine.MaxGraphletSize)
		case "NodeOrders":
			if e.Tag() == "arity" {
				return fmt.Errorf("%w: %v node orderings for %s graphs", ErrArityMismatch, e.Value(), e.Param())
			}
		}

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, e.Param(), e.Value())
		case "lte":
			return fmt.Errorf("%w: %s must be at most %s, got %v", ErrTooLarge, strings.ToLower(field), e.Param(), e.Value())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
