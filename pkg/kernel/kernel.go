// Package kernel defines the abstract geometry kernel the import pipeline
// delegates to. Implementations (see kernel/sdfx) provide triangle face
// extraction, convex shape construction and lightmap unwrapping behind this
// interface, so the pipeline never touches vertex data directly.
package kernel

import (
	"errors"

	"github.com/chazu/levelimport/pkg/scene"
)

// ErrDegenerate is returned when a mesh has no usable geometry.
var ErrDegenerate = errors.New("kernel: degenerate mesh")

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Trimesh extracts the triangle faces of m as a concave shape.
	Trimesh(m *scene.Mesh) (*scene.Shape, error)

	// Convex builds a convex shape from the vertices of m.
	Convex(m *scene.Mesh) (*scene.Shape, error)

	// Unwrap returns a rebuilt copy of m carrying generated lightmap UVs.
	// texelSize is the world-space size of one lightmap texel. Surfaces
	// and their materials are preserved; m is not modified.
	Unwrap(m *scene.Mesh, texelSize float64) (*scene.Mesh, error)
}
