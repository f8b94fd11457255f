package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an infinitesimal light source that casts hard shadows
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3 // RGB in [0,1]^3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{
		Position: position,
		Color:    color,
	}
}

// DirectionFrom returns the unit direction from point toward the light and
// the distance between them
func (l *PointLight) DirectionFrom(point core.Vec3) (core.Vec3, float64) {
	toLight := l.Position.Subtract(point)
	distance := toLight.Length()
	return toLight.Normalize(), distance
}

// String prints the light the way scene dumps show it
func (l *PointLight) String() string {
	return fmt.Sprintf("point light at %v color %v", l.Position, l.Color)
}
