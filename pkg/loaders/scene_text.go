package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// tokenReader walks a whitespace-separated scene description one token at a time
type tokenReader struct {
	scanner *bufio.Scanner
	index   int
}

func newTokenReader(r io.Reader) *tokenReader {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	return &tokenReader{scanner: scanner}
}

func (tr *tokenReader) next(field string) (string, error) {
	if !tr.scanner.Scan() {
		err := tr.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", &ConfigError{Token: tr.index + 1, Field: field, Err: err}
	}
	tr.index++
	return tr.scanner.Text(), nil
}

func (tr *tokenReader) float(field string) (float64, error) {
	tok, err := tr.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ConfigError{Token: tr.index, Field: field, Err: fmt.Errorf("invalid number %q", tok)}
	}
	return v, nil
}

func (tr *tokenReader) integer(field string) (int, error) {
	tok, err := tr.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ConfigError{Token: tr.index, Field: field, Err: fmt.Errorf("invalid integer %q", tok)}
	}
	return v, nil
}

func (tr *tokenReader) count(field string) (int, error) {
	n, err := tr.integer(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ConfigError{Token: tr.index, Field: field, Err: fmt.Errorf("count %d must not be negative", n)}
	}
	return n, nil
}

func (tr *tokenReader) vec3(field string) (core.Vec3, error) {
	var c [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		v, err := tr.float(field + "." + axis)
		if err != nil {
			return core.Vec3{}, err
		}
		c[i] = v
	}
	return core.NewVec3(c[0], c[1], c[2]), nil
}

// ParseScene reads a scene description:
//
//	depth
//	image size
//	object count
//	per object: tag (sphere | triangle | general), geometry,
//	            color, ambient diffuse specular recursive, shininess
//	light count
//	per light: position, color
//
// The checkerboard floor is appended after the listed objects and the
// resulting scene is validated before it is returned.
func ParseScene(reader io.Reader) (*scene.Scene, error) {
	tr := newTokenReader(reader)

	depth, err := tr.integer("depth")
	if err != nil {
		return nil, err
	}
	size, err := tr.integer("image size")
	if err != nil {
		return nil, err
	}
	s := scene.New(depth, size)

	numObjects, err := tr.count("object count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < numObjects; i++ {
		prim, err := parseObject(tr, i)
		if err != nil {
			return nil, err
		}
		s.Add(prim)
	}

	numLights, err := tr.count("light count")
	if err != nil {
		return nil, err
	}
	for i := 0; i < numLights; i++ {
		field := fmt.Sprintf("light[%d]", i)
		position, err := tr.vec3(field + ".position")
		if err != nil {
			return nil, err
		}
		color, err := tr.vec3(field + ".color")
		if err != nil {
			return nil, err
		}
		s.AddLight(position, color)
	}

	s.AddDefaultFloor()

	if err := s.Validate(); err != nil {
		return nil, &ConfigError{Field: "scene", Err: err}
	}
	return s, nil
}

// parseObject reads one tagged object including its material
func parseObject(tr *tokenReader, i int) (geometry.Primitive, error) {
	field := fmt.Sprintf("object[%d]", i)
	tag, err := tr.next(field + ".type")
	if err != nil {
		return nil, err
	}

	// Geometry comes before the material in the file, so build the
	// primitive once both are known
	var build func(material.Material) geometry.Primitive
	switch tag {
	case "sphere":
		center, err := tr.vec3(field + ".center")
		if err != nil {
			return nil, err
		}
		radius, err := tr.float(field + ".radius")
		if err != nil {
			return nil, err
		}
		build = func(m material.Material) geometry.Primitive {
			return geometry.NewSphere(center, radius, m)
		}
	case "triangle":
		var v [3]core.Vec3
		for j := range v {
			if v[j], err = tr.vec3(fmt.Sprintf("%s.vertex[%d]", field, j)); err != nil {
				return nil, err
			}
		}
		build = func(m material.Material) geometry.Primitive {
			return geometry.NewTriangle(v[0], v[1], v[2], m)
		}
	case "general":
		var coeffs [10]float64
		for j := range coeffs {
			if coeffs[j], err = tr.float(fmt.Sprintf("%s.coefficient[%d]", field, j)); err != nil {
				return nil, err
			}
		}
		ref, err := tr.vec3(field + ".reference")
		if err != nil {
			return nil, err
		}
		var dims [3]float64
		for j, name := range []string{"length", "width", "height"} {
			if dims[j], err = tr.float(field + "." + name); err != nil {
				return nil, err
			}
		}
		build = func(m material.Material) geometry.Primitive {
			return geometry.NewGeneralQuadric(coeffs, ref, dims[0], dims[1], dims[2], m)
		}
	default:
		return nil, &ConfigError{Token: tr.index, Field: field + ".type", Err: fmt.Errorf("unknown object type %q", tag)}
	}

	mat, err := parseMaterial(tr, field)
	if err != nil {
		return nil, err
	}
	return build(mat), nil
}

func parseMaterial(tr *tokenReader, field string) (material.Material, error) {
	color, err := tr.vec3(field + ".color")
	if err != nil {
		return material.Material{}, err
	}
	var k [4]float64
	for j, name := range []string{"ambient", "diffuse", "specular", "recursive"} {
		if k[j], err = tr.float(field + "." + name); err != nil {
			return material.Material{}, err
		}
	}
	shininess, err := tr.integer(field + ".shininess")
	if err != nil {
		return material.Material{}, err
	}
	return material.New(color, material.Reflectance{
		Ambient:   k[0],
		Diffuse:   k[1],
		Specular:  k[2],
		Recursive: k[3],
	}, shininess), nil
}

// LoadScene loads and parses a scene file
func LoadScene(filename string) (*scene.Scene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// validateFilePath only admits scene files under a scenes/ directory or
// the temp directory
func validateFilePath(filename string) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.Contains(filename, "\x00") {
		return errors.New("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))
	inScenes := strings.HasPrefix(cleanPath, "scenes/") || strings.Contains(cleanPath, "/scenes/")
	if !inScenes && !strings.HasPrefix(filepath.Clean(filename), os.TempDir()) {
		return errors.New("file path must be in scenes/ directory")
	}
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".txt") {
		return errors.New("invalid file type: only .txt scene files are allowed")
	}
	if len(cleanPath) > 512 {
		return errors.New("file path too long: maximum 512 characters allowed")
	}
	return nil
}
