package scene

import "github.com/go-gl/mathgl/mgl32"

// Walk returns n and all of its descendants in depth-first pre-order. The
// result is a snapshot: adding or removing nodes afterwards does not change
// it, so callers may mutate the tree while iterating.
func Walk(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	var visit func(*Node)
	visit = func(cur *Node) {
		out = append(out, cur)
		for _, c := range cur.children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// MeshInstances returns the mesh instance nodes of Walk(n).
func MeshInstances(n *Node) []*Node {
	var out []*Node
	for _, d := range Walk(n) {
		if d.IsMeshInstance() {
			out = append(out, d)
		}
	}
	return out
}

// RelativeTransform returns the transform of n in the space of ancestor,
// accumulating local transforms from ancestor's child down to n. It
// returns the identity when n is ancestor and n's full transform chain to
// the root when ancestor is not above n.
func RelativeTransform(ancestor, n *Node) mgl32.Mat4 {
	var chain []mgl32.Mat4
	for cur := n; cur != nil && cur != ancestor; cur = cur.parent {
		chain = append(chain, cur.Transform)
	}
	m := mgl32.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		m = m.Mul4(chain[i])
	}
	return m
}
