package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator computes the color seen along a ray that is known to hit hit
type Integrator interface {
	Shade(ray core.Ray, hit scene.Hit, depth int) core.Vec3
}

// RayStats counts the secondary rays an integrator traced
type RayStats struct {
	ShadowRays     int64
	ReflectionRays int64
	ShadeCalls     int64
	MaxNesting     int64 // deepest chain of nested Shade calls seen
}

// Add returns the sum of two counters
func (s RayStats) Add(other RayStats) RayStats {
	return RayStats{
		ShadowRays:     s.ShadowRays + other.ShadowRays,
		ReflectionRays: s.ReflectionRays + other.ReflectionRays,
		ShadeCalls:     s.ShadeCalls + other.ShadeCalls,
		MaxNesting:     max(s.MaxNesting, other.MaxNesting),
	}
}
