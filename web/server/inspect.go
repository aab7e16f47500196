package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ShapeID      uint32                 `json:"shapeId"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first shape seen through a pixel
type InspectResult struct {
	Hit      bool
	Shape    geometry.Shape
	Point    core.Vec3
	Normal   core.Vec3
	Distance float64
}

// inspectPixel casts a primary ray through the centre of pixel (x, y)
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	camera := renderer.NewCamera(sceneObj.Config)
	target := core.NewVec3(float64(pixelX), float64(pixelY), 0)

	hit, ok := sceneObj.Intersect(camera.Position, target)
	if !ok {
		return InspectResult{Hit: false}
	}
	return InspectResult{
		Hit:      true,
		Shape:    hit.Shape,
		Point:    hit.Point,
		Normal:   geometry.NormalAt(hit.Shape, hit.Point),
		Distance: hit.Point.Distance(camera.Position),
	}
}

// extractMaterialInfo extracts the optical properties shared by every shape
func extractMaterialInfo(m geometry.Material) map[string]interface{} {
	return map[string]interface{}{
		"color":           fmt.Sprintf("#%02x%02x%02x", m.Color.R, m.Color.G, m.Color.B),
		"reflectance":     m.Reflectance,
		"refractiveIndex": m.IOR(),
		"transmittance":   m.Transmittance,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Position)
		properties["radius"] = geom.Radius

	case *geometry.Wall:
		properties["position"] = vecArray(geom.Position)
		properties["normal"] = vecArray(geom.Normal())

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{
			vecArray(geom.Vertices[0]),
			vecArray(geom.Vertices[1]),
			vecArray(geom.Vertices[2]),
		}
		properties["centroid"] = vecArray(geom.Position)
		properties["normal"] = vecArray(geom.Normal())
	}
	return properties
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseSceneRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ShapeID:      uint32(result.Shape.Base().ID()),
		GeometryType: result.Shape.Kind().String(),
		Point:        vecArray(result.Point),
		Normal:       vecArray(result.Normal),
		Distance:     result.Distance,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(result.Shape.Base().Material),
			"geometry": extractGeometryInfo(result.Shape),
		},
	})
}
