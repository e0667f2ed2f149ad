package crawler

// Node is one visited URL of the crawl tree with its children in discovery order
type Node struct {
	URL      string
	Children []*Node
}

// BuildTree inverts the parent map into a tree rooted at root. Only URLs in
// visitedOrder become nodes, and children keep visit order. The result is
// nil when root itself was never visited. The build is iterative so its
// depth is not bounded by the call stack.
func BuildTree(root string, parents map[string]string, visitedOrder []string) *Node {
	visited := make(map[string]bool, len(visitedOrder))
	for _, u := range visitedOrder {
		visited[u] = true
	}
	if !visited[root] {
		return nil
	}

	rootNode := &Node{URL: root}

	children := make(map[string][]string)
	for _, u := range visitedOrder {
		if u == root {
			continue
		}
		parent, ok := parents[u]
		if !ok || parent == "" || !visited[parent] {
			continue
		}
		children[parent] = append(children[parent], u)
	}

	seen := map[string]bool{root: true}
	stack := []*Node{rootNode}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range children[n.URL] {
			if seen[child] {
				continue
			}
			seen[child] = true
			c := &Node{URL: child}
			n.Children = append(n.Children, c)
			stack = append(stack, c)
		}
	}

	return rootNode
}

// Walk visits n and its descendants depth-first, pre-order. fn receives
// the node depth, the root being 0.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	if n == nil {
		return
	}
	type item struct {
		node  *Node
		depth int
	}
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(it.node, it.depth)
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.depth + 1})
		}
	}
}

// Size returns the number of nodes in the tree
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node, int) { count++ })
	return count
}
