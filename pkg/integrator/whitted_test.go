package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func redMaterial() material.Material {
	return material.New(core.NewVec3(1, 0, 0), material.Reflectance{Ambient: 0.2, Diffuse: 0.3, Specular: 0.2, Recursive: 0.1}, 10)
}

func assertColorNear(t *testing.T, got, expected core.Vec3) {
	t.Helper()
	const tolerance = 1e-6
	if math.Abs(got.X-expected.X) > tolerance ||
		math.Abs(got.Y-expected.Y) > tolerance ||
		math.Abs(got.Z-expected.Z) > tolerance {
		t.Errorf("Expected color %v, got %v", expected, got)
	}
}

// shadeFirstHit traces ray into s and shades whatever it hits first
func shadeFirstHit(t *testing.T, w *WhittedIntegrator, s *scene.Scene, ray core.Ray, depth int) core.Vec3 {
	t.Helper()
	hit, ok := s.FindNearest(ray)
	if !ok {
		t.Fatal("Expected the ray to hit the scene")
	}
	return w.Shade(ray, hit, depth)
}

func TestShade_AmbientOnlyWithoutLights(t *testing.T) {
	s := scene.New(0, 1)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, redMaterial()))
	w := NewWhittedIntegrator(s)

	ray := core.NewRay(core.NewVec3(0, 0, 50), core.NewVec3(0, 0, -1))
	color := shadeFirstHit(t, w, s, ray, 0)
	assertColorNear(t, color, core.NewVec3(0.2, 0, 0))
}

func TestShade_FullPhongHeadOn(t *testing.T) {
	s := scene.New(1, 1)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, redMaterial()))
	s.AddLight(core.NewVec3(0, 0, 50), core.NewVec3(1, 1, 1))
	w := NewWhittedIntegrator(s)

	// Light and eye both straight above the pole: N·L = 1 and R·V = 1
	ray := core.NewRay(core.NewVec3(0, 0, 50), core.NewVec3(0, 0, -1))
	for _, depth := range []int{0, 1, 4} {
		color := shadeFirstHit(t, w, s, ray, depth)
		assertColorNear(t, color, core.NewVec3(0.2+0.3+0.2, 0.2, 0.2))
	}
}

func TestShade_ShadowedByOccluder(t *testing.T) {
	target := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, redMaterial())
	occluder := geometry.NewSphere(core.NewVec3(0, 0, 10), 2, redMaterial())

	hit := scene.Hit{Index: 0, Primitive: target, Point: core.NewVec3(0, 0, 1)}
	ray := core.NewRay(core.NewVec3(3, 0, 4), core.NewVec3(-3, 0, -3))

	lit := scene.New(0, 1)
	lit.Add(target)
	lit.AddLight(core.NewVec3(0, 0, 20), core.NewVec3(1, 1, 1))
	litColor := NewWhittedIntegrator(lit).Shade(ray, hit, 0)

	shadowed := scene.New(0, 1)
	shadowed.Add(target, occluder)
	shadowed.AddLight(core.NewVec3(0, 0, 20), core.NewVec3(1, 1, 1))
	shadowedColor := NewWhittedIntegrator(shadowed).Shade(ray, hit, 0)

	assertColorNear(t, shadowedColor, core.NewVec3(0.2, 0, 0))
	if litColor.X <= shadowedColor.X {
		t.Errorf("Expected the unoccluded point to be brighter: lit %v, shadowed %v", litColor, shadowedColor)
	}
}

func TestShade_LightBetweenSurfaceAndOccluder(t *testing.T) {
	target := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, redMaterial())
	beyond := geometry.NewSphere(core.NewVec3(0, 0, 30), 2, redMaterial())

	s := scene.New(0, 1)
	s.Add(target, beyond)
	s.AddLight(core.NewVec3(0, 0, 20), core.NewVec3(1, 1, 1))
	w := NewWhittedIntegrator(s)

	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	color := shadeFirstHit(t, w, s, ray, 0)
	assertColorNear(t, color, core.NewVec3(0.7, 0.2, 0.2))
}

func TestShade_EscapingReflectionAddsNothing(t *testing.T) {
	s := scene.New(3, 1)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, redMaterial()))
	s.AddLight(core.NewVec3(20, 0, 30), core.NewVec3(1, 1, 1))
	w := NewWhittedIntegrator(s)

	ray := core.NewRay(core.NewVec3(0, 0, 50), core.NewVec3(0, 0, -1))
	withoutReflection := shadeFirstHit(t, w, s, ray, 0)
	withReflection := shadeFirstHit(t, w, s, ray, 3)
	assertColorNear(t, withReflection, withoutReflection)
}

func TestShade_ReflectionPicksUpMirroredObject(t *testing.T) {
	mirror := material.New(core.NewVec3(0, 0, 0), material.Reflectance{Recursive: 1}, 1)
	glow := material.New(core.NewVec3(0, 1, 0), material.Reflectance{Ambient: 1}, 1)

	s := scene.New(1, 1)
	s.Add(
		geometry.NewTriangle(core.NewVec3(-10, -10, 0), core.NewVec3(10, -10, 0), core.NewVec3(0, 10, 0), mirror),
		geometry.NewSphere(core.NewVec3(0, 0, 20), 2, glow),
	)
	w := NewWhittedIntegrator(s)

	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	hit, ok := s.FindNearest(ray)
	if !ok || hit.Index != 0 {
		t.Fatalf("Expected to hit the mirror first, got %+v", hit)
	}

	assertColorNear(t, w.Shade(ray, hit, 0), core.NewVec3(0, 0, 0))
	assertColorNear(t, w.Shade(ray, hit, 1), core.NewVec3(0, 1, 0))
}

// newMirrorCorridor builds two facing mirrors so a vertical ray bounces forever
func newMirrorCorridor() *scene.Scene {
	mirror := material.New(core.NewVec3(0.5, 0.5, 0.5), material.Reflectance{Ambient: 0.1, Recursive: 0.9}, 1)
	s := scene.New(0, 1)
	s.Add(geometry.NewTriangle(
		core.NewVec3(-100, -100, 10), core.NewVec3(100, -100, 10), core.NewVec3(0, 100, 10), mirror))
	s.AddDefaultFloor()
	return s
}

func TestShade_RecursionDepthBound(t *testing.T) {
	s := newMirrorCorridor()
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	for depth := 0; depth <= 6; depth++ {
		s.MaxDepth = depth
		w := NewWhittedIntegrator(s)
		var seen []int
		w.onShade = func(d int) { seen = append(seen, d) }

		shadeFirstHit(t, w, s, ray, depth)

		if len(seen) != depth+1 {
			t.Errorf("depth %d: expected %d shading calls, got %d", depth, depth+1, len(seen))
		}
		for i, d := range seen {
			if d != depth-i {
				t.Errorf("depth %d: call %d ran with depth %d, expected %d", depth, i, d, depth-i)
			}
		}
		stats := w.Stats()
		if stats.ReflectionRays != int64(depth) {
			t.Errorf("depth %d: expected %d reflection rays, got %d", depth, depth, stats.ReflectionRays)
		}
		if stats.MaxNesting != int64(depth+1) {
			t.Errorf("depth %d: expected nesting %d, got %d", depth, depth+1, stats.MaxNesting)
		}
	}
}

func TestShade_ClampsToUnitRange(t *testing.T) {
	hot := material.New(core.NewVec3(1, 1, 1), material.Reflectance{Ambient: 1, Diffuse: 1, Specular: 1, Recursive: 1}, 0)
	s := newMirrorCorridor()
	s.Add(geometry.NewSphere(core.NewVec3(30, 30, 5), 4, hot))
	for i := 0; i < 5; i++ {
		s.AddLight(core.NewVec3(float64(i*10), 0, 8), core.NewVec3(1, 1, 1))
	}
	w := NewWhittedIntegrator(s)

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)),
		core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(1, 1, -0.2)),
		core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(-1, 0.3, 0.4)),
	}
	for _, ray := range rays {
		hit, ok := s.FindNearest(ray)
		if !ok {
			continue
		}
		c := w.Shade(ray, hit, 4)
		for _, channel := range []float64{c.X, c.Y, c.Z} {
			if channel < 0 || channel > 1 {
				t.Errorf("Channel %f outside [0,1] for ray %v", channel, ray)
			}
		}
	}
}

func TestShade_CountsShadowRays(t *testing.T) {
	s := scene.New(0, 1)
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 5, redMaterial()))
	s.AddLight(core.NewVec3(0, 0, 50), core.NewVec3(1, 1, 1))
	s.AddLight(core.NewVec3(0, 50, 0), core.NewVec3(1, 1, 1))
	w := NewWhittedIntegrator(s)

	ray := core.NewRay(core.NewVec3(0, 0, 50), core.NewVec3(0, 0, -1))
	shadeFirstHit(t, w, s, ray, 0)
	shadeFirstHit(t, w, s, ray, 0)

	stats := w.Stats()
	if stats.ShadowRays != 4 || stats.ShadeCalls != 2 {
		t.Errorf("Expected 4 shadow rays over 2 calls, got %+v", stats)
	}
}
