package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Floor constants used when the loader appends the board
const (
	FloorBoardWidth = 1000.0
	FloorTileWidth  = 20.0
	FloorShininess  = 5
)

// FloorReflectance is the fixed reflectance of the appended floor
var FloorReflectance = material.Reflectance{Ambient: 0.5, Diffuse: 0.3, Specular: 0.3, Recursive: 0.3}

// Scene contains all the elements needed for rendering. It must not be
// modified while a render is in flight.
type Scene struct {
	Primitives []geometry.Primitive // Objects in the scene, scanned in order
	Lights     []*lights.PointLight // Lights in the scene
	MaxDepth   int                  // Maximum number of reflection bounces
	ImageSize  int                  // Output edge length in pixels; images are square
}

// Hit identifies the nearest primitive along a ray
type Hit struct {
	Index     int // position of the primitive in Scene.Primitives
	Primitive geometry.Primitive
	T         float64
	Point     core.Vec3
}

// New creates an empty scene
func New(maxDepth, imageSize int) *Scene {
	return &Scene{
		Primitives: make([]geometry.Primitive, 0),
		Lights:     make([]*lights.PointLight, 0),
		MaxDepth:   maxDepth,
		ImageSize:  imageSize,
	}
}

// Add appends primitives to the scene
func (s *Scene) Add(primitives ...geometry.Primitive) {
	s.Primitives = append(s.Primitives, primitives...)
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(position, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color))
}

// NewDefaultFloor creates the checkerboard floor the loader appends last
func NewDefaultFloor() *geometry.Floor {
	mat := material.New(core.NewVec3(1, 1, 1), FloorReflectance, FloorShininess)
	return geometry.NewFloor(FloorBoardWidth, FloorTileWidth, mat)
}

// AddDefaultFloor appends the checkerboard floor
func (s *Scene) AddDefaultFloor() {
	s.Add(NewDefaultFloor())
}

// Validate checks the scene for configuration errors
func (s *Scene) Validate() error {
	var errs []error
	if s.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("recursion depth %d must not be negative", s.MaxDepth))
	}
	if s.ImageSize <= 0 {
		errs = append(errs, fmt.Errorf("image size %d must be positive", s.ImageSize))
	}
	for i, p := range s.Primitives {
		if err := p.GetMaterial().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("object %d (%s): %w", i, p.Kind(), err))
		}
		if sphere, ok := p.(*geometry.Sphere); ok && sphere.Radius <= 0 {
			errs = append(errs, fmt.Errorf("object %d (sphere): radius %g must be positive", i, sphere.Radius))
		}
	}
	for i, l := range s.Lights {
		c := l.Color
		if c.X < 0 || c.Y < 0 || c.Z < 0 || c.X > 1 || c.Y > 1 || c.Z > 1 {
			errs = append(errs, fmt.Errorf("light %d: color %v outside [0, 1]", i, c))
		}
	}
	return errors.Join(errs...)
}

// FindNearest scans every primitive and returns the one with the smallest
// positive ray parameter
func (s *Scene) FindNearest(ray core.Ray) (Hit, bool) {
	best := Hit{Index: -1}
	for i, p := range s.Primitives {
		t, ok := p.Hit(ray)
		if !ok || t <= 0 {
			continue
		}
		if best.Index < 0 || t < best.T {
			best.Index = i
			best.Primitive = p
			best.T = t
		}
	}
	if best.Index < 0 {
		return Hit{}, false
	}
	best.Point = ray.At(best.T)
	return best, true
}

// Occluded reports whether any primitive blocks the ray strictly between
// minT and maxT
func (s *Scene) Occluded(ray core.Ray, minT, maxT float64) bool {
	for _, p := range s.Primitives {
		if t, ok := p.Hit(ray); ok && t > minT && t < maxT {
			return true
		}
	}
	return false
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// Describe writes one line per object and light to the logger
func (s *Scene) Describe(logger core.Logger) {
	logger.Printf("Scene: depth %d, image %dx%d, %d objects, %d lights\n",
		s.MaxDepth, s.ImageSize, s.ImageSize, len(s.Primitives), len(s.Lights))
	for i, p := range s.Primitives {
		logger.Printf("  [%d] %s\n", i, p)
	}
	for i, l := range s.Lights {
		logger.Printf("  light %d: %s\n", i, l)
	}
}
