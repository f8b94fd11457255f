package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates a demo scene with three spheres, a pyramid face,
// a quadric and three coloured lights over the checkerboard floor
func NewDefaultScene() *Scene {
	s := New(3, 768)

	green := material.New(core.NewVec3(0, 1, 0), material.Reflectance{Ambient: 0.4, Diffuse: 0.2, Specular: 0.2, Recursive: 0.2}, 5)
	blue := material.New(core.NewVec3(0, 0, 1), material.Reflectance{Ambient: 0.2, Diffuse: 0.2, Specular: 0.4, Recursive: 0.2}, 1)
	yellow := material.New(core.NewVec3(1, 1, 0), material.Reflectance{Ambient: 0.4, Diffuse: 0.3, Specular: 0.1, Recursive: 0.2}, 3)
	red := material.New(core.NewVec3(1, 0, 0), material.Reflectance{Ambient: 0.4, Diffuse: 0.2, Specular: 0.1, Recursive: 0.3}, 5)
	cyan := material.New(core.NewVec3(0, 1, 1), material.Reflectance{Ambient: 0.4, Diffuse: 0.2, Specular: 0.1, Recursive: 0.3}, 3)

	s.Add(
		geometry.NewSphere(core.NewVec3(40, 0, 10), 10, green),
		geometry.NewSphere(core.NewVec3(-30, 60, 20), 20, blue),
		geometry.NewSphere(core.NewVec3(-15, 15, 45), 15, yellow),
		geometry.NewTriangle(
			core.NewVec3(50, 30, 0),
			core.NewVec3(70, 60, 0),
			core.NewVec3(50, 45, 50),
			red,
		),
		// Cylinder x² + y² = 400 clipped to 0 <= z <= 20
		geometry.NewGeneralQuadric(
			[10]float64{1, 1, 0, 0, 0, 0, 0, 0, 0, -400},
			core.NewVec3(0, 0, 0), 0, 0, 20,
			cyan,
		),
	)

	s.AddLight(core.NewVec3(70, 70, 70), core.NewVec3(1, 0, 0))
	s.AddLight(core.NewVec3(30, 30, 80), core.NewVec3(0, 0.5, 0.5))
	s.AddLight(core.NewVec3(-70, 70, 70), core.NewVec3(0, 0, 1))

	s.AddDefaultFloor()
	return s
}
