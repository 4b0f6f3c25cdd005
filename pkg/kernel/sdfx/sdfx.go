// Package sdfx implements the kernel.Kernel interface on top of the
// github.com/deadsy/sdfx CAD library's vector and bounding-box types, and
// tessellates sdfx solids into scene meshes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/levelimport/pkg/kernel"
	"github.com/chazu/levelimport/pkg/scene"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// areaEpsilon is the smallest doubled triangle area treated as a face.
const areaEpsilon = 1e-12

// SdfxKernel implements kernel.Kernel using sdfx geometry types.
type SdfxKernel struct {
	// ChartPadding is the empty border in texels around every lightmap
	// chart.
	ChartPadding int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{ChartPadding: 1}
}

// triangle returns the corners of triangle t of s.
func triangle(s *scene.Surface, t int) ([3]v3.Vec, error) {
	var tri [3]v3.Vec
	idx := s.Triangle(t)
	vc := s.VertexCount()
	for j, i := range idx {
		if i < 0 || i >= vc {
			return tri, fmt.Errorf("triangle %d references vertex %d of %d", t, i, vc)
		}
		p := s.Vertex(i)
		tri[j] = v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}
	return tri, nil
}

// faceNormal returns the unnormalized normal of tri; its length is twice
// the triangle's area.
func faceNormal(tri [3]v3.Vec) v3.Vec {
	return tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
}

// Trimesh extracts every non-degenerate triangle of m as a concave shape.
func (k *SdfxKernel) Trimesh(m *scene.Mesh) (*scene.Shape, error) {
	var faces []float32
	for si := range m.Surfaces {
		s := &m.Surfaces[si]
		for t := 0; t < s.TriangleCount(); t++ {
			tri, err := triangle(s, t)
			if err != nil {
				return nil, fmt.Errorf("sdfx: mesh %q surface %d: %w", m.Name, si, err)
			}
			if faceNormal(tri).Length() < areaEpsilon {
				continue
			}
			for _, v := range tri {
				faces = append(faces, float32(v.X), float32(v.Y), float32(v.Z))
			}
		}
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: mesh %q has no faces", kernel.ErrDegenerate, m.Name)
	}
	return &scene.Shape{Kind: scene.ConcaveShape, Faces: faces}, nil
}

// Convex returns the distinct vertices of m as a convex point cloud. The
// physics engine wraps the points with their hull. Fewer than four points,
// or points on a single axis-aligned line, are rejected.
func (k *SdfxKernel) Convex(m *scene.Mesh) (*scene.Shape, error) {
	seen := make(map[[3]float32]bool)
	var points []float32
	var bb sdf.Box3
	for si := range m.Surfaces {
		s := &m.Surfaces[si]
		for i := 0; i < s.VertexCount(); i++ {
			p := s.Vertex(i)
			if seen[p] {
				continue
			}
			v := v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
			if len(seen) == 0 {
				bb = sdf.Box3{Min: v, Max: v}
			} else {
				bb = sdf.Box3{Min: bb.Min.Min(v), Max: bb.Max.Max(v)}
			}
			seen[p] = true
			points = append(points, p[0], p[1], p[2])
		}
	}
	if len(seen) < 4 {
		return nil, fmt.Errorf("%w: mesh %q has %d distinct points, need 4", kernel.ErrDegenerate, m.Name, len(seen))
	}
	size := bb.Size()
	if size.X <= 0 && size.Y <= 0 || size.Y <= 0 && size.Z <= 0 || size.X <= 0 && size.Z <= 0 {
		return nil, fmt.Errorf("%w: mesh %q is collinear", kernel.ErrDegenerate, m.Name)
	}
	return &scene.Shape{Kind: scene.ConvexShape, Points: points}, nil
}

// ---------------------------------------------------------------------------
// Lightmap unwrapping
// ---------------------------------------------------------------------------

// chart is one triangle projected onto its dominant plane, in texels.
type chart struct {
	surface, corner int // first output vertex of the triangle
	uv              [3][2]float64
	w, h            int // size in texels including padding
	x, y            int // placement in the atlas
}

// project flattens tri onto the axis plane most facing its normal and
// returns the 2D corners relative to their minimum, scaled to texels.
func project(tri [3]v3.Vec, texelSize float64) [3][2]float64 {
	n := faceNormal(tri)
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)

	var uv [3][2]float64
	for i, v := range tri {
		switch {
		case ax >= ay && ax >= az:
			uv[i] = [2]float64{v.Z, v.Y}
		case ay >= az:
			uv[i] = [2]float64{v.X, v.Z}
		default:
			uv[i] = [2]float64{v.X, v.Y}
		}
	}
	minU, minV := math.Inf(1), math.Inf(1)
	for _, p := range uv {
		minU = math.Min(minU, p[0])
		minV = math.Min(minV, p[1])
	}
	for i := range uv {
		uv[i][0] = (uv[i][0] - minU) / texelSize
		uv[i][1] = (uv[i][1] - minV) / texelSize
	}
	return uv
}

// Unwrap rebuilds m as unindexed surfaces with one lightmap chart per
// triangle, shelf-packed into a single atlas whose size in texels is
// recorded in LightmapSize.
func (k *SdfxKernel) Unwrap(m *scene.Mesh, texelSize float64) (*scene.Mesh, error) {
	if texelSize <= 0 || math.IsNaN(texelSize) || math.IsInf(texelSize, 0) {
		return nil, fmt.Errorf("sdfx: invalid texel size %v", texelSize)
	}
	pad := k.ChartPadding
	if pad < 0 {
		pad = 0
	}

	out := &scene.Mesh{Name: m.Name, Surfaces: make([]scene.Surface, len(m.Surfaces))}
	var charts []*chart
	for si := range m.Surfaces {
		src := &m.Surfaces[si]
		dst := &out.Surfaces[si]
		dst.Material = src.Material

		hasNormals := len(src.Normals) == len(src.Vertices)
		hasUVs := len(src.UVs) == src.VertexCount()*2
		for t := 0; t < src.TriangleCount(); t++ {
			tri, err := triangle(src, t)
			if err != nil {
				return nil, fmt.Errorf("sdfx: mesh %q surface %d: %w", m.Name, si, err)
			}
			n := faceNormal(tri)
			if n.Length() >= areaEpsilon {
				n = n.Normalize()
			}
			c := &chart{surface: si, corner: dst.VertexCount(), uv: project(tri, texelSize)}
			for j, vi := range src.Triangle(t) {
				p := src.Vertex(vi)
				dst.Vertices = append(dst.Vertices, p[0], p[1], p[2])
				if hasNormals {
					dst.Normals = append(dst.Normals, src.Normals[vi*3], src.Normals[vi*3+1], src.Normals[vi*3+2])
				} else {
					dst.Normals = append(dst.Normals, float32(n.X), float32(n.Y), float32(n.Z))
				}
				if hasUVs {
					dst.UVs = append(dst.UVs, src.UVs[vi*2], src.UVs[vi*2+1])
				}
				c.w = max(c.w, int(math.Ceil(c.uv[j][0])))
				c.h = max(c.h, int(math.Ceil(c.uv[j][1])))
			}
			c.w = max(c.w, 1) + 2*pad
			c.h = max(c.h, 1) + 2*pad
			charts = append(charts, c)
		}
	}
	if len(charts) == 0 {
		return nil, fmt.Errorf("%w: mesh %q has no triangles to unwrap", kernel.ErrDegenerate, m.Name)
	}

	width, height := pack(charts)
	for si := range out.Surfaces {
		out.Surfaces[si].UV2 = make([]float32, out.Surfaces[si].VertexCount()*2)
	}
	for _, c := range charts {
		uv2 := out.Surfaces[c.surface].UV2
		for j := 0; j < 3; j++ {
			u := (float64(c.x+pad) + c.uv[j][0]) / float64(width)
			v := (float64(c.y+pad) + c.uv[j][1]) / float64(height)
			uv2[(c.corner+j)*2] = float32(u)
			uv2[(c.corner+j)*2+1] = float32(v)
		}
	}
	out.LightmapSize = [2]int{width, height}
	return out, nil
}

// pack places charts on shelves of a roughly square atlas in input order
// and returns the atlas size.
func pack(charts []*chart) (width, height int) {
	area, widest := 0, 0
	for _, c := range charts {
		area += c.w * c.h
		widest = max(widest, c.w)
	}
	width = max(widest, int(math.Ceil(math.Sqrt(float64(area)))))

	x, y, shelf := 0, 0, 0
	for _, c := range charts {
		if x+c.w > width {
			x = 0
			y += shelf
			shelf = 0
		}
		c.x, c.y = x, y
		x += c.w
		shelf = max(shelf, c.h)
	}
	return width, y + shelf
}

// ---------------------------------------------------------------------------
// Tessellation
// ---------------------------------------------------------------------------

// Box tessellates an axis-aligned box with its minimum corner at the
// origin into a single-surface mesh, using marching cubes with the given
// number of cells along the longest side.
func Box(x, y, z float64, cells int) (*scene.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	// Shift from center-origin to min-corner-origin.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return ToMesh(sdf.Transform3D(s, m), cells), nil
}

// ToMesh converts an sdfx solid to a single-surface triangle mesh using
// marching cubes.
func ToMesh(s sdf.SDF3, cells int) *scene.Mesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	surf := scene.Surface{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			surf.Vertices = append(surf.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			surf.Normals = append(surf.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			surf.Indices = append(surf.Indices, uint32(i*3+j))
		}
	}
	return &scene.Mesh{Surfaces: []scene.Surface{surf}}
}
