package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	base
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		base:   base{Reference: center, Material: mat},
		Radius: radius,
	}
}

// Center returns the sphere center
func (s *Sphere) Center() core.Vec3 {
	return s.Reference
}

// Hit tests if a ray intersects with the sphere using the geometric method
func (s *Sphere) Hit(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	ro := ray.Origin.Subtract(s.Reference)
	r2 := s.Radius * s.Radius

	// Projection of the center onto the ray, and the squared distance of
	// the center from the ray
	tp := ro.Negate().Dot(ray.Direction)
	roLen2 := ro.Dot(ro)
	d2 := roLen2 - tp*tp

	// Center is behind the origin, or the ray passes outside the sphere
	if tp < 0 || d2 > r2 {
		return 0, false
	}

	tHalf := math.Sqrt(r2 - d2)

	var t float64
	if roLen2 < r2 {
		// Origin strictly inside: only the far root is ahead of us
		t = tp + tHalf
	} else {
		t = tp - tHalf
	}

	if t <= 0 {
		return 0, false
	}
	return t, true
}

// NormalAt returns the outward normal
func (s *Sphere) NormalAt(point core.Vec3, ray core.Ray) core.Vec3 {
	return point.Subtract(s.Reference).Normalize()
}

// ColorAt returns the material color
func (s *Sphere) ColorAt(point core.Vec3) core.Vec3 {
	return s.Material.Color
}

// Kind implements Primitive
func (s *Sphere) Kind() Kind {
	return KindSphere
}

func (s *Sphere) String() string {
	return fmt.Sprintf("sphere center %v radius %g %v", s.Reference, s.Radius, s.Material)
}
