package attr

import "fmt"

// Kind enumerates the attribute markers recognized in node names.
type Kind int

const (
	NoCollision     Kind = iota // skip collision synthesis
	ConvexCollision             // convex shape instead of concave
	CollisionLayer              // body collision layer bits, Col{n}
	CollisionMask               // body collision mask bits, ColMask{n}
	NoRender                    // drop the mesh, keep the node as a collider carrier
	CollisionOnly               // legacy spelling of NoRender
	NoBake                      // dynamic GI instead of baked
	TexelScale                  // lightmap texel multiplier, Texel{f}
	NoShadow                    // disable shadow casting
	RenderLayer                 // render layer bits, Layer{n}
	numKinds
)

func (k Kind) String() string {
	switch k {
	case NoCollision:
		return "no-collision"
	case ConvexCollision:
		return "convex-collision"
	case CollisionLayer:
		return "collision-layer"
	case CollisionMask:
		return "collision-mask"
	case NoRender:
		return "no-render"
	case CollisionOnly:
		return "collision-only"
	case NoBake:
		return "no-bake"
	case TexelScale:
		return "texel-scale"
	case NoShadow:
		return "no-shadow"
	case RenderLayer:
		return "render-layer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Kinds returns every recognized kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

type valueType int

const (
	valueNone valueType = iota
	valueUint
	valueFloat
)

func (k Kind) valueType() valueType {
	switch k {
	case CollisionLayer, CollisionMask, RenderLayer:
		return valueUint
	case TexelScale:
		return valueFloat
	default:
		return valueNone
	}
}

// HasValue reports whether the kind carries a bracketed numeric literal.
func (k Kind) HasValue() bool {
	return k.valueType() != valueNone
}

// Default is the value a present attribute takes when its literal does not
// parse. Flag kinds return 0.
func (k Kind) Default() float64 {
	switch k {
	case RenderLayer, TexelScale:
		return 1
	default:
		return 0
	}
}
