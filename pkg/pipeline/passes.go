package pipeline

import (
	"fmt"

	"github.com/chazu/levelimport/pkg/attr"
	"github.com/chazu/levelimport/pkg/scene"
)

// Pass is one step of static node processing. Apply receives the root of
// a static subtree and visits the mesh instances in it.
type Pass struct {
	Name  string
	Apply func(r *Run, root *scene.Node) error
}

// Passes returns the static passes in the order they must run.
//
// Collision reads the meshes before render removal drops them, so
// NoRender nodes still collide. Lightmap runs after render removal so no
// time is spent unwrapping meshes that are gone. Shadow runs after
// lightmap because rebuilding a mesh resets shadow casting. Material runs
// last and assigns materials to the rebuilt meshes.
func Passes() []Pass {
	return []Pass{
		{Name: "collision", Apply: collisionPass},
		{Name: "render-removal", Apply: renderRemovalPass},
		{Name: "lightmap", Apply: lightmapPass},
		{Name: "shadow", Apply: shadowPass},
		{Name: "layer", Apply: layerPass},
		{Name: "material", Apply: materialPass},
	}
}

// bodySuffix is appended to a mesh node's name to name its collision body.
const bodySuffix = "_col"

// collisionPass gives every mesh instance a static body carrying a shape
// built from its mesh. Bodies of descendants are added to root with the
// mesh node's transform relative to root; the body of root itself becomes
// its sibling. Either way the body lands where the mesh is drawn.
func collisionPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if n.Mesh == nil || r.has(n, attr.NoCollision) {
			continue
		}

		build := r.Kernel.Trimesh
		if r.has(n, attr.ConvexCollision) {
			build = r.Kernel.Convex
		}
		shape, err := build(n.Mesh)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}

		parent := root
		body := scene.NewNode(n.Name+bodySuffix, scene.StaticBody)
		body.Transform = scene.RelativeTransform(root, n)
		if n == root && root.Parent() != nil {
			parent = root.Parent()
			body.Transform = root.Transform
		}
		if v, ok := r.value(n, attr.CollisionLayer); ok {
			body.CollisionLayer = uint32(v)
		}
		if v, ok := r.value(n, attr.CollisionMask); ok {
			body.CollisionMask = uint32(v)
		}
		cs := scene.NewNode("CollisionShape", scene.CollisionShape)
		cs.Shape = shape
		body.AddChild(cs)

		r.adopt(parent, body)
		r.Report.Bodies++
		r.log.Debug("added collision body", "node", n.Path(), "shape", shape.Kind,
			"layer", body.CollisionLayer, "mask", body.CollisionMask)
	}
	return nil
}

// renderRemovalPass drops the mesh of nodes marked NoRender or ColOnly. The
// node stays in place.
func renderRemovalPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if !r.has(n, attr.NoRender) && !r.has(n, attr.CollisionOnly) {
			continue
		}
		n.Mesh = nil
		n.IgnoreOcclusionCulling = true
		r.Report.RenderRemoved++
	}
	return nil
}

// lightmapPass rebuilds every mesh with lightmap UVs and picks the GI mode.
func lightmapPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if n.Mesh == nil {
			continue
		}
		texel := r.BaseTexelSize
		if v, ok := r.value(n, attr.TexelScale); ok {
			texel *= v
		}
		m, err := r.Kernel.Unwrap(n.Mesh, texel)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}
		n.Mesh = m
		n.Shadow = scene.ShadowOn
		if r.has(n, attr.NoBake) {
			n.GIMode = scene.GIDynamic
		} else {
			n.GIMode = scene.GIStatic
		}
		r.Report.Unwrapped++
	}
	return nil
}

// shadowPass makes meshes cast shadows from both faces unless NoShadow is
// set.
func shadowPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if r.has(n, attr.NoShadow) {
			n.Shadow = scene.ShadowOff
		} else {
			n.Shadow = scene.ShadowDoubleSided
		}
	}
	return nil
}

func layerPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if v, ok := r.value(n, attr.RenderLayer); ok {
			n.RenderLayers = uint32(v)
		}
	}
	return nil
}

// materialPass swaps every surface material for the catalog material whose
// name it contains, or the blank material when none does.
func materialPass(r *Run, root *scene.Node) error {
	for _, n := range scene.MeshInstances(root) {
		if n.Mesh == nil {
			continue
		}
		for i := range n.Mesh.Surfaces {
			s := &n.Mesh.Surfaces[i]
			name := s.MaterialName()
			e, ok := r.Materials.BestMatch(name)
			if !ok {
				r.log.Debug("no catalog material, using blank", "node", n.Path(), "surface", i,
					"material", name, "closest", r.Materials.Suggest(name, suggestions))
				s.Material = scene.BlankMaterial()
				r.Report.Blank++
				continue
			}
			m, err := r.material(e)
			if err != nil {
				return fmt.Errorf("%s: %w", n.Path(), err)
			}
			s.Material = m
			r.Report.Materials++
		}
	}
	return nil
}

// placeholderName names the empty node attached when a replaceable node
// matches no packaged scene.
const placeholderName = "Placeholder"

// Replace swaps the content of n for an instance of the packaged scene its
// name matches. The existing children are queued for deletion, the mesh is
// cleared and the node is renamed "<name> (replaced)". A node matching no
// packaged scene gets an empty placeholder instead.
func (r *Run) Replace(n *scene.Node) error {
	var inst *scene.Node
	if e, ok := r.Scenes.BestMatch(n.Name); ok {
		var err error
		inst, err = r.instance(e)
		if err != nil {
			return fmt.Errorf("replace %s: %w", n.Path(), err)
		}
	} else {
		r.log.Debug("no packaged scene, using placeholder", "node", n.Path(),
			"closest", r.Scenes.Suggest(n.Name, suggestions))
		inst = scene.New(placeholderName)
	}

	for _, c := range n.Children() {
		c.QueueFree()
	}
	n.Mesh = nil
	r.adopt(n, inst)
	n.Name += " (replaced)"
	r.Report.Replaced++
	r.log.Debug("replaced node", "node", n.Path(), "source", inst.Source)
	return nil
}
