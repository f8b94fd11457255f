package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Index        int                    `json:"index"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        [3]float64             `json:"color"` // shaded pixel color
	Properties   map[string]interface{} `json:"properties"`
}

// extractMaterialInfo lists the Phong coefficients of a material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"color": fmt.Sprintf("#%02x%02x%02x",
			int(mat.Color.X*255), int(mat.Color.Y*255), int(mat.Color.Z*255)),
		"ambient":   mat.Reflectance.Ambient,
		"diffuse":   mat.Reflectance.Diffuse,
		"specular":  mat.Reflectance.Specular,
		"recursive": mat.Reflectance.Recursive,
		"shininess": mat.Shininess,
	}
}

// extractGeometryInfo extracts the defining parameters of a primitive
// and, for the floor, the tile under the hit point
func extractGeometryInfo(prim geometry.Primitive, point core.Vec3) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := prim.(type) {
	case *geometry.Sphere:
		properties["center"] = vecJSON(geom.Center())
		properties["radius"] = geom.Radius
	case *geometry.Triangle:
		properties["normal"] = vecJSON(geom.GetNormal())
	case *geometry.Floor:
		properties["halfWidth"] = geom.HalfWidth()
		properties["tileWidth"] = geom.TileWidth
		i, j := geom.TileIndex(point)
		properties["tile"] = [2]int{i, j}
	case *geometry.GeneralQuadric:
		properties["coefficients"] = geom.Coefficients
		properties["clip"] = [3]float64{geom.Length, geom.Width, geom.Height}
	}
	return properties
}

// inspectPixel casts the primary ray of a pixel and describes the nearest hit
func inspectPixel(sc *scene.Scene, rt *renderer.Raytracer, row, col int) InspectResponse {
	ray := rt.PrimaryRay(row, col)
	hit, ok := sc.FindNearest(ray)
	if !ok {
		return InspectResponse{Hit: false, Index: -1}
	}

	color, _ := rt.RenderPixel(row, col)
	prim := hit.Primitive
	return InspectResponse{
		Hit:          true,
		Index:        hit.Index,
		GeometryType: prim.Kind().String(),
		Point:        vecJSON(hit.Point),
		Normal:       vecJSON(prim.NormalAt(hit.Point, ray)),
		Distance:     hit.T,
		Color:        vecJSON(color),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(prim.GetMaterial()),
			"geometry": extractGeometryInfo(prim, hit.Point),
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	sc := s.session.Scene()
	size := sc.ImageSize

	row, err := parseIntParam(r.URL.Query(), "row", -1, 0, size-1)
	if err != nil || row < 0 {
		writeError(w, http.StatusBadRequest, "Invalid row coordinate")
		return
	}
	col, err := parseIntParam(r.URL.Query(), "col", -1, 0, size-1)
	if err != nil || col < 0 {
		writeError(w, http.StatusBadRequest, "Invalid col coordinate")
		return
	}

	rt, err := s.session.Raytracer()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sc, rt, row, col))
}
