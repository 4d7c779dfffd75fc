package dag

// HasCycle reports whether the adjacency mapping contains a directed cycle
// reachable from any node.
//
// The traversal is an explicit-stack depth-first search over two sets:
// visited holds nodes fully processed across the whole run, onStack holds
// nodes on the current path. An edge into an on-stack node is a back-edge
// and answers true immediately. Every key that has not been visited starts
// a fresh traversal, so disconnected components are covered. Successor
// names without an adjacency entry are leaves.
func HasCycle(adjacency map[string][]string) bool {
	visited := make(map[string]bool, len(adjacency))
	onStack := make(map[string]bool, len(adjacency))

	type frame struct {
		node string
		next int
	}

	for root := range adjacency {
		if visited[root] {
			continue
		}

		stack := []frame{{node: root}}
		visited[root] = true
		onStack[root] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			successors := adjacency[top.node]

			if top.next < len(successors) {
				successor := successors[top.next]
				top.next++

				if onStack[successor] {
					return true
				}
				if !visited[successor] {
					visited[successor] = true
					onStack[successor] = true
					stack = append(stack, frame{node: successor})
				}
				continue
			}

			// Successors exhausted: backtrack.
			onStack[top.node] = false
			stack = stack[:len(stack)-1]
		}
	}

	return false
}
