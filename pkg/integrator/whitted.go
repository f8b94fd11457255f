package integrator

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultEpsilon is the offset applied along the surface normal to the
// origin of shadow and reflection rays
const DefaultEpsilon = 1e-4

// WhittedIntegrator shades hits with local Phong illumination, hard shadows
// and bounded mirror reflection.
//
// It only reads the scene, so one integrator may be shared by any number
// of goroutines.
type WhittedIntegrator struct {
	scene   *scene.Scene
	epsilon float64

	shadowRays     atomic.Int64
	reflectionRays atomic.Int64
	shadeCalls     atomic.Int64
	maxNesting     atomic.Int64

	// onShade, when set, is called at the start of every Shade call
	onShade func(depth int)
}

// NewWhittedIntegrator creates a new integrator for the scene
func NewWhittedIntegrator(s *scene.Scene) *WhittedIntegrator {
	return &WhittedIntegrator{
		scene:   s,
		epsilon: DefaultEpsilon,
	}
}

// Stats returns the number of rays traced so far
func (w *WhittedIntegrator) Stats() RayStats {
	return RayStats{
		ShadowRays:     w.shadowRays.Load(),
		ReflectionRays: w.reflectionRays.Load(),
		ShadeCalls:     w.shadeCalls.Load(),
		MaxNesting:     w.maxNesting.Load(),
	}
}

// recordNesting tracks the deepest reflection chain. A primary hit shaded
// at the scene's MaxDepth is nesting level 1.
func (w *WhittedIntegrator) recordNesting(depth int) {
	level := int64(w.scene.MaxDepth - depth + 1)
	for {
		current := w.maxNesting.Load()
		if level <= current || w.maxNesting.CompareAndSwap(current, level) {
			return
		}
	}
}

// Shade computes the color at hit for a ray arriving with the given
// remaining reflection depth. Every channel of the result is in [0, 1].
func (w *WhittedIntegrator) Shade(ray core.Ray, hit scene.Hit, depth int) core.Vec3 {
	w.shadeCalls.Add(1)
	w.recordNesting(depth)
	if w.onShade != nil {
		w.onShade(depth)
	}

	prim := hit.Primitive
	mat := prim.GetMaterial()
	normal := prim.NormalAt(hit.Point, ray)
	surfaceColor := prim.ColorAt(hit.Point)

	color := surfaceColor.Multiply(mat.Reflectance.Ambient)

	// Secondary rays start slightly above the surface so they do not
	// immediately re-hit it
	origin := hit.Point.Add(normal.Multiply(w.epsilon))

	for _, light := range w.scene.Lights {
		lightDir, lightDist := light.DirectionFrom(origin)
		if lightDist == 0 {
			continue
		}

		w.shadowRays.Add(1)
		shadowRay := core.NewRay(origin, lightDir)
		if w.scene.Occluded(shadowRay, w.epsilon, lightDist) {
			continue
		}

		lambert := max(0, normal.Dot(lightDir))
		diffuse := light.Color.MultiplyVec(surfaceColor).Multiply(mat.Reflectance.Diffuse * lambert)

		reflected := lightDir.Negate().Reflect(normal)
		view := ray.Direction.Negate()
		phong := math.Pow(max(0, reflected.Dot(view)), float64(mat.Shininess))
		specular := light.Color.Multiply(mat.Reflectance.Specular * phong)

		color = color.Add(diffuse).Add(specular)
	}

	if depth > 0 {
		w.reflectionRays.Add(1)
		reflectedRay := core.NewRay(origin, ray.Direction.Reflect(normal))
		if next, ok := w.scene.FindNearest(reflectedRay); ok {
			reflectedColor := w.Shade(reflectedRay, next, depth-1)
			color = color.Add(reflectedColor.Multiply(mat.Reflectance.Recursive))
		}
	}

	return color.Clamp(0, 1)
}
