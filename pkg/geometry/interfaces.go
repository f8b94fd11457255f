package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Kind tags the closed set of primitive variants
type Kind int

const (
	KindSphere Kind = iota
	KindTriangle
	KindFloor
	KindGeneralQuadric
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	case KindFloor:
		return "floor"
	case KindGeneralQuadric:
		return "general"
	default:
		return "unknown"
	}
}

// Primitive is a renderable scene object. The set of implementations is
// closed: only the variants in this package satisfy it.
type Primitive interface {
	// Hit returns the smallest ray parameter t > 0 at which the ray meets
	// the surface
	Hit(ray core.Ray) (float64, bool)

	// NormalAt returns the unit surface normal at a point on the surface.
	// The incoming ray is used by two-sided surfaces to orient the normal.
	NormalAt(point core.Vec3, ray core.Ray) core.Vec3

	// ColorAt returns the surface color at a point on the surface
	ColorAt(point core.Vec3) core.Vec3

	// GetMaterial returns the primitive's material
	GetMaterial() material.Material

	Kind() Kind
	String() string

	sealed()
}

// base holds the fields every variant shares
type base struct {
	Reference core.Vec3 // center, corner or clip-box origin depending on the variant
	Material  material.Material
}

// GetMaterial returns the primitive's material
func (b *base) GetMaterial() material.Material {
	return b.Material
}

func (b *base) sealed() {}
