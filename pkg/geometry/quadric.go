package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// GeneralQuadric is the implicit surface
//
//	Ax² + By² + Cz² + Dxy + Exz + Fyz + Gx + Hy + Iz + J = 0
//
// clipped to an axis-aligned box anchored at the reference point. A zero
// box dimension leaves that axis unclipped.
//
// Ray intersection is not supported: Hit always reports a miss, so a
// quadric never shows up in a render.
type GeneralQuadric struct {
	base
	Coefficients          [10]float64
	Length, Width, Height float64
}

// NewGeneralQuadric creates a new quadric surface
func NewGeneralQuadric(coefficients [10]float64, reference core.Vec3, length, width, height float64, mat material.Material) *GeneralQuadric {
	return &GeneralQuadric{
		base:         base{Reference: reference, Material: mat},
		Coefficients: coefficients,
		Length:       length,
		Width:        width,
		Height:       height,
	}
}

// Hit always misses
func (q *GeneralQuadric) Hit(ray core.Ray) (float64, bool) {
	return 0, false
}

// NormalAt faces back along the ray. Hit never reports a point, so this
// only keeps the Primitive contract total.
func (q *GeneralQuadric) NormalAt(p core.Vec3, ray core.Ray) core.Vec3 {
	return ray.Direction.Negate().Normalize()
}

// ColorAt returns the material color
func (q *GeneralQuadric) ColorAt(point core.Vec3) core.Vec3 {
	return q.Material.Color
}

// Kind implements Primitive
func (q *GeneralQuadric) Kind() Kind {
	return KindGeneralQuadric
}

func (q *GeneralQuadric) String() string {
	return fmt.Sprintf("general quadric %v clip %v [%g %g %g] %v",
		q.Coefficients, q.Reference, q.Length, q.Width, q.Height, q.Material)
}
