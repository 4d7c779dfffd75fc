package dag

import (
	"fmt"
	"testing"
)

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name      string
		adjacency map[string][]string
		want      bool
	}{
		{
			name:      "empty mapping",
			adjacency: map[string][]string{},
			want:      false,
		},
		{
			name:      "single node",
			adjacency: map[string][]string{"a": {}},
			want:      false,
		},
		{
			name: "chain",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"d"},
				"d": {},
			},
			want: false,
		},
		{
			name: "two-node cycle",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {"a"},
			},
			want: true,
		},
		{
			name: "three-node cycle",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"a"},
			},
			want: true,
		},
		{
			name: "diamond is acyclic",
			adjacency: map[string][]string{
				"a": {"b", "c"},
				"b": {"d"},
				"c": {"d"},
				"d": {},
			},
			want: false,
		},
		{
			name: "self reference",
			adjacency: map[string][]string{
				"a": {"a"},
			},
			want: true,
		},
		{
			name: "disconnected components, all acyclic",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {},
				"x": {"y"},
				"y": {},
			},
			want: false,
		},
		{
			name: "cycle hidden in a disconnected component",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {},
				"x": {"y"},
				"y": {"z"},
				"z": {"x"},
			},
			want: true,
		},
		{
			name: "successor without an adjacency entry is a leaf",
			adjacency: map[string][]string{
				"a": {"ghost"},
			},
			want: false,
		},
		{
			name: "shared tail revisited from second root is not a cycle",
			adjacency: map[string][]string{
				"a": {"c"},
				"b": {"c"},
				"c": {"d"},
				"d": {},
			},
			want: false,
		},
		{
			name: "cycle below a long acyclic prefix",
			adjacency: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"d"},
				"d": {"e"},
				"e": {"c"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCycle(tt.adjacency); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCycle_DeepChain(t *testing.T) {
	// A recursive implementation would exhaust the stack here; the
	// worklist traversal must not.
	const depth = 200000
	adjacency := make(map[string][]string, depth)
	for i := 0; i < depth-1; i++ {
		adjacency[nodeName(i)] = []string{nodeName(i + 1)}
	}
	adjacency[nodeName(depth-1)] = []string{}

	if HasCycle(adjacency) {
		t.Error("HasCycle() = true for a deep chain, want false")
	}

	// Close the chain into one huge ring.
	adjacency[nodeName(depth-1)] = []string{nodeName(0)}
	if !HasCycle(adjacency) {
		t.Error("HasCycle() = false for a deep ring, want true")
	}
}

func nodeName(i int) string {
	return fmt.Sprintf("n%d", i)
}
