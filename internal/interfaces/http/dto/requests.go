// Package dto contains the request and response shapes of the HTTP API.
// Validation is declarative through struct tags and runs at the HTTP
// boundary, before anything reaches the domain layer.
package dto

import (
	"fmt"
	"strings"

	"dagstore-backend/internal/domain/dag"
)

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidationErrors collects the validation errors of one request.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	var messages []string
	for _, err := range v.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// NodeSpec declares one node of a new graph. Names are restricted to
// latin letters.
type NodeSpec struct {
	Name string `json:"name" validate:"required,min=1,max=255,nodename"`
}

// EdgeSpec declares one directed edge of a new graph by its endpoint
// node names.
type EdgeSpec struct {
	Source string `json:"source" validate:"required,nodename"`
	Target string `json:"target" validate:"required,nodename"`
}

// CreateGraphRequest is the body of POST /api/graph/.
//
// Both lists must be present; an empty edge list is valid, while
// whether an empty node list is acceptable is decided by the domain
// layer, not here.
type CreateGraphRequest struct {
	Nodes []NodeSpec `json:"nodes" validate:"required,dive"`
	Edges []EdgeSpec `json:"edges" validate:"required,dive"`
}

// NodeNames returns the declared node names in request order.
func (r *CreateGraphRequest) NodeNames() []string {
	names := make([]string, len(r.Nodes))
	for i, n := range r.Nodes {
		names[i] = n.Name
	}
	return names
}

// EdgeSpecs returns the declared edges in request order.
func (r *CreateGraphRequest) EdgeSpecs() []dag.EdgeSpec {
	specs := make([]dag.EdgeSpec, len(r.Edges))
	for i, e := range r.Edges {
		specs[i] = dag.EdgeSpec{Source: e.Source, Target: e.Target}
	}
	return specs
}
