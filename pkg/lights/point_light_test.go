package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight_DirectionFrom(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 0, 50), core.NewVec3(1, 1, 1))

	dir, dist := light.DirectionFrom(core.NewVec3(0, 0, 5))
	if math.Abs(dist-45) > 1e-12 {
		t.Errorf("Expected distance 45, got %f", dist)
	}
	if dir.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected direction (0,0,1), got %v", dir)
	}
}
