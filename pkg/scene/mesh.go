package scene

// Surface is one draw call worth of triangles. All arrays are flat:
// Vertices and Normals hold 3 floats per vertex, UVs and UV2 hold 2, and
// Indices holds 3 entries per triangle. A surface without indices is drawn
// as an unindexed triangle list.
type Surface struct {
	Vertices []float32 `yaml:"vertices,flow"`
	Normals  []float32 `yaml:"normals,flow,omitempty"`
	UVs      []float32 `yaml:"uvs,flow,omitempty"`
	UV2      []float32 `yaml:"uv2,flow,omitempty"`
	Indices  []uint32  `yaml:"indices,flow,omitempty"`
	Material *Material `yaml:"material,omitempty"`
}

// VertexCount returns the number of vertices.
func (s *Surface) VertexCount() int {
	return len(s.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (s *Surface) TriangleCount() int {
	if len(s.Indices) > 0 {
		return len(s.Indices) / 3
	}
	return s.VertexCount() / 3
}

// Triangle returns the vertex indices of triangle i.
func (s *Surface) Triangle(i int) [3]int {
	if len(s.Indices) > 0 {
		return [3]int{int(s.Indices[i*3]), int(s.Indices[i*3+1]), int(s.Indices[i*3+2])}
	}
	return [3]int{i * 3, i*3 + 1, i*3 + 2}
}

// Vertex returns the position of vertex i.
func (s *Surface) Vertex(i int) [3]float32 {
	return [3]float32{s.Vertices[i*3], s.Vertices[i*3+1], s.Vertices[i*3+2]}
}

// IsEmpty returns true if the surface has no geometry.
func (s *Surface) IsEmpty() bool {
	return len(s.Vertices) == 0
}

// MaterialName returns the name of the assigned material, or "".
func (s *Surface) MaterialName() string {
	if s.Material == nil {
		return ""
	}
	return s.Material.Name
}

// Mesh is a renderable resource made of one or more surfaces.
type Mesh struct {
	Name     string    `yaml:"name,omitempty"`
	Surfaces []Surface `yaml:"surfaces"`
	// LightmapSize is the lightmap resolution in texels, set by unwrapping.
	LightmapSize [2]int `yaml:"lightmap_size,flow,omitempty"`
}

// HasLightmapUV reports whether every non-empty surface carries UV2.
func (m *Mesh) HasLightmapUV() bool {
	if len(m.Surfaces) == 0 {
		return false
	}
	for i := range m.Surfaces {
		s := &m.Surfaces[i]
		if !s.IsEmpty() && len(s.UV2) != s.VertexCount()*2 {
			return false
		}
	}
	return true
}

// TriangleCount returns the total triangle count over all surfaces.
func (m *Mesh) TriangleCount() int {
	n := 0
	for i := range m.Surfaces {
		n += m.Surfaces[i].TriangleCount()
	}
	return n
}

// Material is a surface appearance resource. Materials are identified by
// name; Path records the asset they were loaded from.
type Material struct {
	Name      string     `yaml:"name,omitempty"`
	Path      string     `yaml:"path,omitempty"`
	Albedo    [4]float32 `yaml:"albedo,flow"`
	Roughness float32    `yaml:"roughness"`
	Metallic  float32    `yaml:"metallic"`
}

// BlankMaterial returns the material used when no catalog entry matches.
func BlankMaterial() *Material {
	return &Material{Albedo: [4]float32{1, 1, 1, 1}, Roughness: 1}
}

// IsBlank reports whether m is an anonymous default material.
func (m *Material) IsBlank() bool {
	return m == nil || (m.Name == "" && m.Path == "")
}

// ShapeKind distinguishes collision shape representations.
type ShapeKind int

const (
	ConcaveShape ShapeKind = iota // triangle soup, static only
	ConvexShape                   // point cloud wrapped by its convex hull
)

func (k ShapeKind) String() string {
	switch k {
	case ConcaveShape:
		return "concave"
	case ConvexShape:
		return "convex"
	default:
		return "unknown"
	}
}

// Shape is a collision shape resource.
type Shape struct {
	Kind   ShapeKind `yaml:"kind"`
	Faces  []float32 `yaml:"faces,flow,omitempty"`  // concave: 9 floats per triangle
	Points []float32 `yaml:"points,flow,omitempty"` // convex: 3 floats per point
}

// FaceCount returns the number of triangles of a concave shape.
func (s *Shape) FaceCount() int {
	return len(s.Faces) / 9
}

// PointCount returns the number of points of a convex shape.
func (s *Shape) PointCount() int {
	return len(s.Points) / 3
}
