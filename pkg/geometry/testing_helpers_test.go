package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func plainMaterial() material.Material {
	return material.New(core.NewVec3(0.5, 0.5, 0.5), material.Reflectance{Ambient: 0.4, Diffuse: 0.2, Specular: 0.2, Recursive: 0.2}, 10)
}

func assertVecNear(t *testing.T, what string, got, expected core.Vec3) {
	t.Helper()
	const tolerance = 1e-9
	if math.Abs(got.X-expected.X) > tolerance ||
		math.Abs(got.Y-expected.Y) > tolerance ||
		math.Abs(got.Z-expected.Z) > tolerance {
		t.Errorf("Expected %s %v, got %v", what, expected, got)
	}
}
