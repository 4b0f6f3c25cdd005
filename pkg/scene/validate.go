package scene

import "fmt"

// ValidationSeverity indicates whether a finding makes the tree unusable or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // tree is inconsistent
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string // node path, empty for tree-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate runs the structural checks on the tree rooted at root and
// returns every finding. It never mutates the tree.
func Validate(root *Node) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLinks(root)...)
	errs = append(errs, validateNames(root)...)
	errs = append(errs, validateOwners(root)...)
	errs = append(errs, validatePhysics(root)...)
	errs = append(errs, validateMeshes(root)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateLinks checks that every child points back at its parent and that
// no node is reachable twice.
func validateLinks(root *Node) []ValidationError {
	var errs []ValidationError
	seen := make(map[*Node]bool)

	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n] {
			errs = append(errs, ValidationError{
				Path:     n.Path(),
				Message:  "node reachable more than once",
				Severity: SeverityError,
			})
			return
		}
		seen[n] = true
		for _, c := range n.children {
			if c.parent != n {
				errs = append(errs, ValidationError{
					Path:     n.Path() + "/" + c.Name,
					Message:  "child does not point back at its parent",
					Severity: SeverityError,
				})
			}
			visit(c)
		}
	}
	visit(root)
	return errs
}

// validateNames checks that names are non-empty and unique among siblings.
func validateNames(root *Node) []ValidationError {
	var errs []ValidationError
	for _, n := range Walk(root) {
		if n.Name == "" {
			errs = append(errs, ValidationError{
				Path:     n.Path(),
				Message:  "empty node name",
				Severity: SeverityError,
			})
		}
		names := make(map[string]int, len(n.children))
		for _, c := range n.children {
			names[c.Name]++
		}
		for _, c := range n.children {
			if names[c.Name] > 1 {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  fmt.Sprintf("duplicate child name %q", c.Name),
					Severity: SeverityError,
				})
				names[c.Name] = 0 // report once
			}
		}
	}
	return errs
}

// validateOwners warns about nodes that will be dropped on save because
// they are not owned by the root.
func validateOwners(root *Node) []ValidationError {
	var errs []ValidationError
	for _, n := range Walk(root)[1:] {
		if n.owner != root {
			errs = append(errs, ValidationError{
				Path:     n.Path(),
				Message:  "not owned by the scene root; it will not be saved",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validatePhysics checks body and shape pairing.
func validatePhysics(root *Node) []ValidationError {
	var errs []ValidationError
	for _, n := range Walk(root) {
		switch n.Type {
		case StaticBody:
			hasShape := false
			for _, c := range n.children {
				if c.Type == CollisionShape {
					hasShape = true
				}
			}
			if !hasShape {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  "static body has no collision shape",
					Severity: SeverityWarning,
				})
			}
		case CollisionShape:
			if n.Shape == nil {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  "collision shape has no shape resource",
					Severity: SeverityError,
				})
			}
			if n.parent == nil || n.parent.Type != StaticBody {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  "collision shape is not attached to a body",
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

// validateMeshes checks array shapes of every surface.
func validateMeshes(root *Node) []ValidationError {
	var errs []ValidationError
	for _, n := range Walk(root) {
		if n.Mesh == nil {
			continue
		}
		if !n.IsMeshInstance() {
			errs = append(errs, ValidationError{
				Path:     n.Path(),
				Message:  fmt.Sprintf("%s node carries a mesh", n.Type),
				Severity: SeverityWarning,
			})
		}
		for i := range n.Mesh.Surfaces {
			s := &n.Mesh.Surfaces[i]
			if len(s.Vertices)%3 != 0 {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  fmt.Sprintf("surface %d: vertex array length %d is not a multiple of 3", i, len(s.Vertices)),
					Severity: SeverityError,
				})
				continue
			}
			if len(s.Indices)%3 != 0 {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  fmt.Sprintf("surface %d: index array length %d is not a multiple of 3", i, len(s.Indices)),
					Severity: SeverityError,
				})
			}
			vc := uint32(s.VertexCount())
			for _, idx := range s.Indices {
				if idx >= vc {
					errs = append(errs, ValidationError{
						Path:     n.Path(),
						Message:  fmt.Sprintf("surface %d: index %d out of range (%d vertices)", i, idx, vc),
						Severity: SeverityError,
					})
					break
				}
			}
			if len(s.UV2) > 0 && len(s.UV2) != s.VertexCount()*2 {
				errs = append(errs, ValidationError{
					Path:     n.Path(),
					Message:  fmt.Sprintf("surface %d: uv2 length %d does not match %d vertices", i, len(s.UV2), vc),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}
