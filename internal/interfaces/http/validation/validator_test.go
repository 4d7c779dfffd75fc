package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dagstore-backend/internal/interfaces/http/dto"
	"dagstore-backend/internal/interfaces/http/validation"
)

func TestValidateRequest_ValidGraph(t *testing.T) {
	req := dto.CreateGraphRequest{
		Nodes: []dto.NodeSpec{{Name: "a"}, {Name: "b"}},
		Edges: []dto.EdgeSpec{{Source: "a", Target: "b"}},
	}

	assert.NoError(t, validation.ValidateRequest(&req))
}

func TestValidateRequest_EmptyListsAreValid(t *testing.T) {
	// Structural emptiness is a domain concern, not a request-shape
	// concern, so empty lists pass here.
	req := dto.CreateGraphRequest{
		Nodes: []dto.NodeSpec{},
		Edges: []dto.EdgeSpec{},
	}

	assert.NoError(t, validation.ValidateRequest(&req))
}

func TestValidateRequest_MissingLists(t *testing.T) {
	req := dto.CreateGraphRequest{}

	err := validation.ValidateRequest(&req)
	require.Error(t, err)

	verrs, ok := err.(dto.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs.Errors, 2)

	fields := []string{verrs.Errors[0].Field, verrs.Errors[1].Field}
	assert.Contains(t, fields, "nodes")
	assert.Contains(t, fields, "edges")
	assert.Equal(t, "Field required", verrs.Errors[0].Message)
}

func TestValidateRequest_NodeNameRules(t *testing.T) {
	tests := []struct {
		name      string
		nodeName  string
		wantField string
		wantMsg   string
	}{
		{
			name:      "digits rejected",
			nodeName:  "abc123",
			wantField: "nodes[0].name",
			wantMsg:   "Node name must contain only latin letters.",
		},
		{
			name:      "spaces rejected",
			nodeName:  "a b",
			wantField: "nodes[0].name",
			wantMsg:   "Node name must contain only latin letters.",
		},
		{
			name:      "unicode rejected",
			nodeName:  "ümlaut",
			wantField: "nodes[0].name",
			wantMsg:   "Node name must contain only latin letters.",
		},
		{
			name:      "too long rejected",
			nodeName:  strings.Repeat("a", 256),
			wantField: "nodes[0].name",
			wantMsg:   "Must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateGraphRequest{
				Nodes: []dto.NodeSpec{{Name: tt.nodeName}},
				Edges: []dto.EdgeSpec{},
			}

			err := validation.ValidateRequest(&req)
			require.Error(t, err)

			verrs, ok := err.(dto.ValidationErrors)
			require.True(t, ok)
			require.Len(t, verrs.Errors, 1)
			assert.Equal(t, tt.wantField, verrs.Errors[0].Field)
			assert.Equal(t, tt.wantMsg, verrs.Errors[0].Message)
		})
	}
}

func TestValidateRequest_EdgeEndpointsFollowNodeNameRule(t *testing.T) {
	req := dto.CreateGraphRequest{
		Nodes: []dto.NodeSpec{{Name: "a"}},
		Edges: []dto.EdgeSpec{{Source: "a", Target: "b2"}},
	}

	err := validation.ValidateRequest(&req)
	require.Error(t, err)

	verrs, ok := err.(dto.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs.Errors, 1)
	assert.Equal(t, "edges[0].target", verrs.Errors[0].Field)
	assert.Equal(t, "NODENAME", verrs.Errors[0].Code)
}

func TestNodeNamePattern(t *testing.T) {
	assert.True(t, validation.NodeNamePattern.MatchString("abc"))
	assert.True(t, validation.NodeNamePattern.MatchString("ABC"))
	assert.False(t, validation.NodeNamePattern.MatchString(""))
	assert.False(t, validation.NodeNamePattern.MatchString("a1"))
	assert.False(t, validation.NodeNamePattern.MatchString("a-b"))
}
