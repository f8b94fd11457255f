package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Reflectance holds the weights of the four illumination terms of the
// Whitted/Phong model. Each weight lies in [0, 1].
type Reflectance struct {
	Ambient   float64
	Diffuse   float64
	Specular  float64
	Recursive float64 // weight of the mirror-reflected color
}

// Material describes how a primitive responds to light
type Material struct {
	Color       core.Vec3 // RGB in [0,1]^3
	Reflectance Reflectance
	Shininess   int // Phong exponent
}

// New creates a new material
func New(color core.Vec3, reflectance Reflectance, shininess int) Material {
	return Material{
		Color:       color,
		Reflectance: reflectance,
		Shininess:   shininess,
	}
}

// Validate checks that every coefficient is within its documented range
func (m Material) Validate() error {
	channels := []struct {
		name  string
		value float64
	}{
		{"red", m.Color.X},
		{"green", m.Color.Y},
		{"blue", m.Color.Z},
		{"ambient", m.Reflectance.Ambient},
		{"diffuse", m.Reflectance.Diffuse},
		{"specular", m.Reflectance.Specular},
		{"recursive", m.Reflectance.Recursive},
	}
	for _, c := range channels {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%s coefficient %g outside [0, 1]", c.name, c.value)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("shininess %d must not be negative", m.Shininess)
	}
	return nil
}

// String prints the material the way scene dumps show it
func (m Material) String() string {
	r := m.Reflectance
	return fmt.Sprintf("color %v reflectance [%g %g %g %g] shininess %d",
		m.Color, r.Ambient, r.Diffuse, r.Specular, r.Recursive, m.Shininess)
}
