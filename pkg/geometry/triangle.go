package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// triangleEpsilon bounds both the parallel-ray determinant test and the
// minimum accepted ray parameter
const triangleEpsilon = 1e-7

// Triangle represents a single triangle defined by three ordered vertices
type Triangle struct {
	base
	V0, V1, V2 core.Vec3
	normal     core.Vec3 // Cached normal vector
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		base: base{Reference: v0, Material: mat},
		V0:   v0,
		V1:   v1,
		V2:   v2,
	}
	t.computeNormal()
	return t
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	t.normal = edge1.Cross(edge2).Normalize()
}

// Intersect runs the Möller-Trumbore test and also reports the barycentric
// coordinates (u, v) of the hit relative to V1 and V2.
func (t *Triangle) Intersect(ray core.Ray) (tParam, u, v float64, ok bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in (or nearly in) the plane of the triangle
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	tParam = f * edge2.Dot(q)
	if tParam <= triangleEpsilon {
		return 0, 0, 0, false
	}

	return tParam, u, v, true
}

// Hit tests if a ray intersects with the triangle
func (t *Triangle) Hit(ray core.Ray) (float64, bool) {
	tParam, _, _, ok := t.Intersect(ray)
	return tParam, ok
}

// NormalAt returns the triangle normal, flipped to face the incoming ray
func (t *Triangle) NormalAt(point core.Vec3, ray core.Ray) core.Vec3 {
	if t.normal.Dot(ray.Direction) > 0 {
		return t.normal.Negate()
	}
	return t.normal
}

// GetNormal returns the triangle's geometric normal (e1 × e2, normalized)
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}

// ColorAt returns the material color
func (t *Triangle) ColorAt(point core.Vec3) core.Vec3 {
	return t.Material.Color
}

// Kind implements Primitive
func (t *Triangle) Kind() Kind {
	return KindTriangle
}

func (t *Triangle) String() string {
	return fmt.Sprintf("triangle %v %v %v %v", t.V0, t.V1, t.V2, t.Material)
}
