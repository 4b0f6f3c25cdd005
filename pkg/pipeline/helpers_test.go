package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/chazu/levelimport/pkg/attr"
	"github.com/chazu/levelimport/pkg/catalog"
	"github.com/chazu/levelimport/pkg/kernel"
	"github.com/chazu/levelimport/pkg/scene"
	"github.com/stretchr/testify/require"
)

// fakeKernel records calls and returns small predictable shapes. Meshes
// named "degenerate" fail.
type fakeKernel struct {
	trimesh, convex int
	texels          []float64
}

var _ kernel.Kernel = (*fakeKernel)(nil)

func (k *fakeKernel) Trimesh(m *scene.Mesh) (*scene.Shape, error) {
	k.trimesh++
	if m.Name == "degenerate" {
		return nil, fmt.Errorf("%w: %s", kernel.ErrDegenerate, m.Name)
	}
	return &scene.Shape{Kind: scene.ConcaveShape, Faces: make([]float32, 9*m.TriangleCount())}, nil
}

func (k *fakeKernel) Convex(m *scene.Mesh) (*scene.Shape, error) {
	k.convex++
	return &scene.Shape{Kind: scene.ConvexShape, Points: make([]float32, 12)}, nil
}

func (k *fakeKernel) Unwrap(m *scene.Mesh, texelSize float64) (*scene.Mesh, error) {
	k.texels = append(k.texels, texelSize)
	out := &scene.Mesh{Name: m.Name, LightmapSize: [2]int{8, 8}}
	for _, s := range m.Surfaces {
		s.UV2 = make([]float32, s.VertexCount()*2)
		out.Surfaces = append(out.Surfaces, s)
	}
	return out, nil
}

// fakeLoader serves assets from memory and counts loads.
type fakeLoader struct {
	scenes    map[string]*scene.Node
	materials map[string]*scene.Material
	loads     map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		scenes:    make(map[string]*scene.Node),
		materials: make(map[string]*scene.Material),
		loads:     make(map[string]int),
	}
}

func (l *fakeLoader) LoadScene(id string) (*scene.Node, error) {
	l.loads[id]++
	s, ok := l.scenes[id]
	if !ok {
		return nil, fmt.Errorf("no scene %q", id)
	}
	return s.Clone(), nil
}

func (l *fakeLoader) LoadMaterial(id string) (*scene.Material, error) {
	l.loads[id]++
	m, ok := l.materials[id]
	if !ok {
		return nil, fmt.Errorf("no material %q", id)
	}
	return m, nil
}

// triangle returns a one-surface mesh with a single triangle using the
// named material.
func triangle(name, material string) *scene.Mesh {
	s := scene.Surface{Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}}
	if material != "" {
		s.Material = &scene.Material{Name: material}
	}
	return &scene.Mesh{Name: name, Surfaces: []scene.Surface{s}}
}

// fixture bundles the collaborators of a test run.
type fixture struct {
	kernel *fakeKernel
	loader *fakeLoader
	opts   Options
}

func newFixture() *fixture {
	k := &fakeKernel{}
	l := newFakeLoader()
	l.materials["mat/Stone"] = &scene.Material{Name: "Stone", Path: "mat/Stone", Roughness: 0.9}
	l.scenes["scn/InteractableDoor"] = buildDoor()
	return &fixture{
		kernel: k,
		loader: l,
		opts: Options{
			Grammar:        attr.DefaultGrammar(),
			LevelIndicator: "Level",
			BaseTexelSize:  0.2,
			Kernel:         k,
			Loader:         l,
			Scenes: catalog.New([]catalog.Entry{
				{ShortName: "InteractableDoor", AssetID: "scn/InteractableDoor"},
			}, true),
			Materials: catalog.New([]catalog.Entry{
				{ShortName: "Stone", AssetID: "mat/Stone"},
			}, false),
		},
	}
}

func buildDoor() *scene.Node {
	door := scene.New("InteractableDoor")
	door.Source = "scn/InteractableDoor"
	door.AddChild(scene.NewMeshInstance("Panel", triangle("panel", "Wood")))
	door.SetOwnerRecursive(door)
	return door
}

// run returns a Run over level with the fixture's options.
func (f *fixture) run(t *testing.T, level *scene.Node) *Run {
	t.Helper()
	r, err := NewRun(context.Background(), level, f.opts)
	require.NoError(t, err)
	return r
}

// level builds an owned level root with the given children.
func level(name string, children ...*scene.Node) *scene.Node {
	root := scene.New(name)
	for _, c := range children {
		root.AddChild(c)
	}
	root.SetOwnerRecursive(root)
	return root
}

// bodies returns the static body children of n.
func bodies(n *scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, c := range n.Children() {
		if c.Type == scene.StaticBody {
			out = append(out, c)
		}
	}
	return out
}
