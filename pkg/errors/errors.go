// Package errors defines the domain error taxonomy shared by the graph
// engine, the service layer, and the HTTP boundary.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a domain error.
type ErrorType string

const (
	// ValidationError indicates the caller submitted a structurally invalid graph.
	ValidationError ErrorType = "VALIDATION"

	// NotFoundError indicates a requested graph or node does not exist.
	NotFoundError ErrorType = "NOT_FOUND"

	// InternalError indicates an infrastructure-level failure, never a caller mistake.
	InternalError ErrorType = "INTERNAL"
)

// DomainError carries the error category, a stable machine-readable code and
// a human-readable message suitable for the response body.
type DomainError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError creates a new domain error with the status implied by its type.
func NewDomainError(errorType ErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		StatusCode: errorTypeToStatusCode(errorType),
	}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause attaches the underlying cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a structured detail. Call only on freshly constructed
// errors; the predefined sentinels below are shared.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// Is matches domain errors by type and code so that dynamically constructed
// instances compare equal to their sentinel via errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

func errorTypeToStatusCode(errorType ErrorType) int {
	switch errorType {
	case ValidationError:
		return 400
	case NotFoundError:
		return 404
	case InternalError:
		return 500
	default:
		return 500
	}
}

// Predefined errors. The validation sentinels with static messages are
// returned directly by the engine; the ones with per-instance context have a
// constructor below and the sentinel serves as the errors.Is target.
var (
	ErrEmptyGraph = NewDomainError(
		ValidationError,
		"EMPTY_GRAPH",
		"Graph must contain at least one node.",
	)

	ErrDuplicateNode = NewDomainError(
		ValidationError,
		"DUPLICATE_NODE",
		"Duplicate node name",
	)

	ErrUnknownNode = NewDomainError(
		ValidationError,
		"UNKNOWN_NODE",
		"Edge references an unknown node",
	)

	ErrSelfLoop = NewDomainError(
		ValidationError,
		"SELF_LOOP",
		"Self-loop prohibited",
	)

	ErrDuplicateEdge = NewDomainError(
		ValidationError,
		"DUPLICATE_EDGE",
		"Duplicate edge detected",
	)

	ErrCyclicGraph = NewDomainError(
		ValidationError,
		"CYCLIC_GRAPH",
		"Invalid graph structure: Cyclic dependencies detected (non-DAG)",
	)

	ErrGraphNotFound = NewDomainError(
		NotFoundError,
		"GRAPH_NOT_FOUND",
		"The requested graph does not exist",
	)

	ErrNodeNotFound = NewDomainError(
		NotFoundError,
		"NODE_NOT_FOUND",
		"The requested node does not exist",
	)
)

// NewDuplicateNode reports a node name that appears twice in one graph.
func NewDuplicateNode(name string) *DomainError {
	return NewDomainError(ValidationError, "DUPLICATE_NODE",
		fmt.Sprintf("Duplicate node name: %s", name)).
		WithDetail("name", name)
}

// NewUnknownSourceNode reports an edge whose source is not a declared node.
func NewUnknownSourceNode(name string) *DomainError {
	return NewDomainError(ValidationError, "UNKNOWN_NODE",
		fmt.Sprintf("Source node not found: %s", name)).
		WithDetail("name", name)
}

// NewUnknownTargetNode reports an edge whose target is not a declared node.
func NewUnknownTargetNode(name string) *DomainError {
	return NewDomainError(ValidationError, "UNKNOWN_NODE",
		fmt.Sprintf("Target node not found: %s", name)).
		WithDetail("name", name)
}

// NewSelfLoop reports an edge from a node to itself.
func NewSelfLoop(source, target string) *DomainError {
	return NewDomainError(ValidationError, "SELF_LOOP",
		fmt.Sprintf("Self-loop prohibited: %s -> %s", source, target)).
		WithDetail("source", source).
		WithDetail("target", target)
}

// NewDuplicateEdge reports a (source, target) pair declared twice.
func NewDuplicateEdge(source, target string) *DomainError {
	return NewDomainError(ValidationError, "DUPLICATE_EDGE",
		fmt.Sprintf("Duplicate edge detected: %s -> %s", source, target)).
		WithDetail("source", source).
		WithDetail("target", target)
}

// NewGraphNotFound reports a graph id with no stored graph.
func NewGraphNotFound(graphID int64) *DomainError {
	return NewDomainError(NotFoundError, "GRAPH_NOT_FOUND",
		fmt.Sprintf("Graph with ID %d not found", graphID)).
		WithDetail("graph_id", graphID)
}

// NewNodeNotFound reports a node name absent from the given graph.
func NewNodeNotFound(graphID int64, name string) *DomainError {
	return NewDomainError(NotFoundError, "NODE_NOT_FOUND",
		fmt.Sprintf("Node '%s' not found in graph %d", name, graphID)).
		WithDetail("graph_id", graphID).
		WithDetail("name", name)
}

// NewInternal wraps an infrastructure failure. The message is safe to log
// but handlers must not echo the cause to clients.
func NewInternal(message string, cause error) *DomainError {
	return NewDomainError(InternalError, "INTERNAL_ERROR", message).WithCause(cause)
}

// Wrap annotates err with a message, preserving an existing DomainError's
// type and code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return &DomainError{
			Type:       domainErr.Type,
			Code:       domainErr.Code,
			Message:    fmt.Sprintf("%s: %s", message, domainErr.Message),
			Details:    domainErr.Details,
			Cause:      err,
			StatusCode: domainErr.StatusCode,
		}
	}
	return NewInternal(message, err)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return isType(err, ValidationError)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return isType(err, NotFoundError)
}

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool {
	return isType(err, InternalError)
}

func isType(err error, errorType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errorType
	}
	return false
}

// GetDomainError extracts the DomainError from err's chain, if any.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// HTTPStatus returns the response status for err; unknown errors map to 500.
func HTTPStatus(err error) int {
	if domainErr, ok := GetDomainError(err); ok {
		return domainErr.StatusCode
	}
	return 500
}
