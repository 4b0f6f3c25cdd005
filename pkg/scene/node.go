// Package scene is the in-memory scene tree the import pipeline operates
// on. It plays the role of the host engine's scene graph: nodes are owned
// by their parent, carry render and physics flags, and can be queued for
// deferred deletion.
package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeType distinguishes what a node is for.
type NodeType int

const (
	Spatial        NodeType = iota // plain transform node
	MeshInstance                   // renders a mesh
	StaticBody                     // immovable physics body
	CollisionShape                 // shape attached to a body
)

func (t NodeType) String() string {
	switch t {
	case Spatial:
		return "spatial"
	case MeshInstance:
		return "mesh"
	case StaticBody:
		return "static-body"
	case CollisionShape:
		return "collision-shape"
	default:
		return "unknown"
	}
}

// ShadowCasting controls how a mesh instance casts shadows. The zero value
// is the engine default.
type ShadowCasting int

const (
	ShadowOn ShadowCasting = iota
	ShadowOff
	ShadowDoubleSided
)

func (s ShadowCasting) String() string {
	switch s {
	case ShadowOn:
		return "on"
	case ShadowOff:
		return "off"
	case ShadowDoubleSided:
		return "double-sided"
	default:
		return "unknown"
	}
}

// GIMode controls how a mesh instance contributes to global illumination.
type GIMode int

const (
	GIStatic GIMode = iota // baked into lightmaps
	GIDynamic
	GIDisabled
)

func (m GIMode) String() string {
	switch m {
	case GIStatic:
		return "static"
	case GIDynamic:
		return "dynamic"
	case GIDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Default bit masks for new nodes.
const (
	DefaultRenderLayers   uint32 = 1
	DefaultCollisionLayer uint32 = 1
	DefaultCollisionMask  uint32 = 1
)

// Node is a single element of the scene tree.
type Node struct {
	Name      string
	Type      NodeType
	Transform mgl32.Mat4 // local, relative to the parent

	// Mesh instances.
	Mesh                   *Mesh
	Shadow                 ShadowCasting
	GIMode                 GIMode
	RenderLayers           uint32
	IgnoreOcclusionCulling bool

	// Static bodies.
	CollisionLayer uint32
	CollisionMask  uint32

	// Collision shapes.
	Shape *Shape

	// Source is the asset path a node was instantiated from, if any.
	Source string

	parent   *Node
	owner    *Node
	children []*Node
	queued   bool
}

// New returns a spatial node suitable as a scene root.
func New(name string) *Node {
	return NewNode(name, Spatial)
}

// NewNode returns a detached node of the given type with default flags.
func NewNode(name string, typ NodeType) *Node {
	return &Node{
		Name:           name,
		Type:           typ,
		Transform:      mgl32.Ident4(),
		RenderLayers:   DefaultRenderLayers,
		CollisionLayer: DefaultCollisionLayer,
		CollisionMask:  DefaultCollisionMask,
	}
}

// NewMeshInstance returns a mesh instance node rendering m.
func NewMeshInstance(name string, m *Mesh) *Node {
	n := NewNode(name, MeshInstance)
	n.Mesh = m
	return n
}

// IsMeshInstance reports whether the node can carry a mesh.
func (n *Node) IsMeshInstance() bool {
	return n.Type == MeshInstance
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Owner returns the node responsible for persisting n.
func (n *Node) Owner() *Node { return n.owner }

// SetOwner sets the persisting owner of n.
func (n *Node) SetOwner(owner *Node) { n.owner = owner }

// SetOwnerRecursive assigns owner to n and every descendant.
func (n *Node) SetOwnerRecursive(owner *Node) {
	for _, d := range Walk(n) {
		if d != owner {
			d.owner = owner
		}
	}
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// FindChild returns the direct child with the given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddChild appends c to n's children. A name already used by a sibling is
// made unique by appending a counter, as the host engine does. Adding a
// node that already has a parent is a programming error and panics.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		panic(fmt.Sprintf("scene: node %q already has parent %q", c.Name, c.parent.Name))
	}
	if c == n {
		panic("scene: node cannot be its own child")
	}
	c.Name = n.uniqueChildName(c.Name)
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches c from n. It returns false if c is not a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// QueueFree marks n for removal at the next FlushQueued.
func (n *Node) QueueFree() { n.queued = true }

// IsQueued reports whether n is waiting for deletion.
func (n *Node) IsQueued() bool { return n.queued }

// FlushQueued detaches every queued node below root and returns how many
// were removed. Descendants of a removed node go with it and are not
// counted separately.
func FlushQueued(root *Node) int {
	removed := 0
	var visit func(n *Node)
	visit = func(n *Node) {
		kept := n.children[:0]
		for _, c := range n.children {
			if c.queued {
				c.parent = nil
				removed++
				continue
			}
			kept = append(kept, c)
		}
		for i := len(kept); i < len(n.children); i++ {
			n.children[i] = nil
		}
		n.children = kept
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(root)
	return removed
}

// Path returns the slash separated names from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Clone returns a deep copy of n and its subtree, detached and unowned.
// Meshes and shapes are shared; they are resources, not tree state.
func (n *Node) Clone() *Node {
	c := *n
	c.parent = nil
	c.owner = nil
	c.queued = false
	c.children = nil
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = &c
		c.children = append(c.children, cc)
	}
	return &c
}

// uniqueChildName ignores queued children; they are gone by the time the
// tree is saved.
func (n *Node) uniqueChildName(name string) string {
	taken := func(name string) bool {
		for _, c := range n.children {
			if c.Name == name && !c.queued {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
