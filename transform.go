package forklr

// --- Bottom-up tree transformation -------------------------------------

// Rewriter is called for every node of a tree after the node's children
// have been transformed. It returns the sequence of items replacing the node
// in its parent's list of children: nothing removes the node, the node's
// children splice it, a single (possibly new) node keeps or replaces it.
// Items may be of any type; *Node items will not be visited again.
type Rewriter func(n *Node) []interface{}

// Keep is a Rewriter which leaves a node in place.
func Keep(n *Node) []interface{} {
	return []interface{}{n}
}

// Splice is a Rewriter which replaces a node by its children.
func Splice(n *Node) []interface{} {
	return n.Children
}

// Drop is a Rewriter which removes a node.
func Drop(n *Node) []interface{} {
	return nil
}

// Rules maps node tags to rewriters. Tags without an entry are kept.
type Rules map[string]Rewriter

// Rewriter returns a Rewriter dispatching on the tag of a node.
func (r Rules) Rewriter() Rewriter {
	return func(n *Node) []interface{} {
		if rw, ok := r[n.Tag]; ok && rw != nil {
			return rw(n)
		}
		return Keep(n)
	}
}

// Transform walks a tree bottom-up and applies rw to every node. Children of
// a node are transformed before the node itself, and the results are spliced
// into a fresh list of children. The input tree is not modified.
//
// The result is the sequence of items replacing the root node.
func Transform(root *Node, rw Rewriter) []interface{} {
	if root == nil {
		return nil
	}
	if rw == nil {
		rw = Keep
	}
	children := make([]interface{}, 0, len(root.Children))
	for _, c := range root.Children {
		if cn, ok := c.(*Node); ok {
			children = append(children, Transform(cn, rw)...)
		} else {
			children = append(children, c)
		}
	}
	n := &Node{Tag: root.Tag, Rank: root.Rank, Span: root.Span, Children: children}
	r := rw(n)
	tracer().Debugf("transform %s -> %d item(s)", root.Tag, len(r))
	return r
}

// TransformTree is like Transform, but expects the rewrite of the root node
// to result in exactly one node. If it does not, the returned nodes are
// wrapped into a new node carrying the original root's tag and rank.
func TransformTree(root *Node, rw Rewriter) *Node {
	r := Transform(root, rw)
	if len(r) == 1 {
		if n, ok := r[0].(*Node); ok {
			return n
		}
	}
	if root == nil {
		return nil
	}
	return &Node{Tag: root.Tag, Rank: root.Rank, Span: root.Span, Children: r}
}
