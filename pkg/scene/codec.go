package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// nodeDoc is the YAML form of a node. Flags equal to their defaults are
// omitted.
type nodeDoc struct {
	Name                   string        `yaml:"name"`
	Type                   NodeType      `yaml:"type,omitempty"`
	Transform              []float32     `yaml:"transform,flow,omitempty"`   // 16 floats, column-major
	Translation            []float32     `yaml:"translation,flow,omitempty"` // shorthand accepted on decode
	Source                 string        `yaml:"source,omitempty"`
	Mesh                   *Mesh         `yaml:"mesh,omitempty"`
	Shadow                 ShadowCasting `yaml:"shadow,omitempty"`
	GIMode                 GIMode        `yaml:"gi_mode,omitempty"`
	RenderLayers           *uint32       `yaml:"render_layers,omitempty"`
	IgnoreOcclusionCulling bool          `yaml:"ignore_occlusion_culling,omitempty"`
	CollisionLayer         *uint32       `yaml:"collision_layer,omitempty"`
	CollisionMask          *uint32       `yaml:"collision_mask,omitempty"`
	Shape                  *Shape        `yaml:"shape,omitempty"`
	Children               []*nodeDoc    `yaml:"children,omitempty"`
}

// Encode writes the tree rooted at root as YAML. Nodes not owned by root
// are skipped together with their subtrees.
func Encode(w io.Writer, root *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(root, root)); err != nil {
		return fmt.Errorf("scene: encode %q: %w", root.Name, err)
	}
	return enc.Close()
}

// Decode reads a YAML scene document. Every decoded node is owned by the
// returned root.
func Decode(r io.Reader) (*Node, error) {
	var doc nodeDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scene: empty document")
		}
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	root, err := fromDoc(&doc)
	if err != nil {
		return nil, err
	}
	root.SetOwnerRecursive(root)
	return root, nil
}

// Load decodes the scene file at path.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	root, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Save encodes root to the file at path, replacing it.
func Save(path string, root *Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: create %s: %w", path, err)
	}
	if err := Encode(f, root); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toDoc(n, root *Node) *nodeDoc {
	d := &nodeDoc{
		Name:                   n.Name,
		Type:                   n.Type,
		Source:                 n.Source,
		Mesh:                   n.Mesh,
		Shadow:                 n.Shadow,
		GIMode:                 n.GIMode,
		IgnoreOcclusionCulling: n.IgnoreOcclusionCulling,
		Shape:                  n.Shape,
	}
	if n.Transform != mgl32.Ident4() {
		d.Transform = append([]float32(nil), n.Transform[:]...)
	}
	if n.RenderLayers != DefaultRenderLayers {
		v := n.RenderLayers
		d.RenderLayers = &v
	}
	if n.CollisionLayer != DefaultCollisionLayer {
		v := n.CollisionLayer
		d.CollisionLayer = &v
	}
	if n.CollisionMask != DefaultCollisionMask {
		v := n.CollisionMask
		d.CollisionMask = &v
	}
	for _, c := range n.children {
		if c.owner != root {
			continue
		}
		d.Children = append(d.Children, toDoc(c, root))
	}
	return d
}

func fromDoc(d *nodeDoc) (*Node, error) {
	if d.Name == "" {
		return nil, errors.New("scene: node without a name")
	}
	n := NewNode(d.Name, d.Type)
	n.Source = d.Source
	n.Mesh = d.Mesh
	n.Shadow = d.Shadow
	n.GIMode = d.GIMode
	n.IgnoreOcclusionCulling = d.IgnoreOcclusionCulling
	n.Shape = d.Shape

	switch {
	case len(d.Transform) == 16:
		copy(n.Transform[:], d.Transform)
	case len(d.Transform) != 0:
		return nil, fmt.Errorf("scene: node %q: transform needs 16 values, got %d", d.Name, len(d.Transform))
	case len(d.Translation) == 3:
		n.Transform = mgl32.Translate3D(d.Translation[0], d.Translation[1], d.Translation[2])
	case len(d.Translation) != 0:
		return nil, fmt.Errorf("scene: node %q: translation needs 3 values, got %d", d.Name, len(d.Translation))
	}
	if d.RenderLayers != nil {
		n.RenderLayers = *d.RenderLayers
	}
	if d.CollisionLayer != nil {
		n.CollisionLayer = *d.CollisionLayer
	}
	if d.CollisionMask != nil {
		n.CollisionMask = *d.CollisionMask
	}

	for _, cd := range d.Children {
		c, err := fromDoc(cd)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Enum encodings
// ---------------------------------------------------------------------------

func (t NodeType) MarshalYAML() (interface{}, error) { return t.String(), nil }

func (t *NodeType) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, t, []NodeType{Spatial, MeshInstance, StaticBody, CollisionShape})
}

func (s ShadowCasting) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *ShadowCasting) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, s, []ShadowCasting{ShadowOn, ShadowOff, ShadowDoubleSided})
}

func (m GIMode) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *GIMode) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, m, []GIMode{GIStatic, GIDynamic, GIDisabled})
}

func (k ShapeKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

func (k *ShapeKind) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, k, []ShapeKind{ConcaveShape, ConvexShape})
}

func unmarshalEnum[T fmt.Stringer](value *yaml.Node, out *T, all []T) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for _, v := range all {
		if v.String() == s {
			*out = v
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown value %q", value.Line, s)
}
