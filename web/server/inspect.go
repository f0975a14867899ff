package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/lights"
	"github.com/df07/go-pathtrace/pkg/material"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// InspectResponse describes what a ray through a given pixel hits
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// handleInspect casts a single ray through the requested pixel and reports
// the nearest surface, for the viewer's click-to-identify feature
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseRenderRequest(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	x, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid x coordinate")
	}
	y, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid y coordinate")
	}
	if x < 0 || x >= req.Width || y < 0 || y >= req.Height {
		return echo.NewHTTPError(http.StatusBadRequest, "pixel coordinates out of bounds")
	}

	sc, err := scene.Build(req.Scene)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := sc.Preprocess(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hit, shape, ok := inspectPixel(sc, req.Width, req.Height, x, y)
	if !ok {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := materialInfo(hit.Material, hit)
	geometryType, geometryProps := geometryInfo(shape)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

// inspectPixel casts a ray through the center of the given pixel and returns
// the nearest hit along with the shape it belongs to
func inspectPixel(sc *scene.Scene, width, height, x, y int) (material.HitRecord, geometry.Shape, bool) {
	s := (float64(x) + 0.5) / float64(width)
	t := 1.0 - (float64(y)+0.5)/float64(height)
	ray := sc.Camera.GetRay(s, t, core.NewSeededSampler(0))

	var hit material.HitRecord
	if !sc.BVH.Hit(ray, 0.001, math.Inf(1), &hit) {
		return material.HitRecord{}, nil, false
	}

	// The BVH reports only the hit record; recover the owning shape by
	// re-testing the scene's top-level shapes at the same distance
	for _, shape := range sc.Shapes {
		var probe material.HitRecord
		if shape.Hit(ray, 0.001, hit.T+1e-9, &probe) && probe.T == hit.T {
			return hit, shape, true
		}
	}
	return hit, nil, true
}

// materialInfo reports the material kind and its parameters at the hit point
func materialInfo(mat material.Material, hit material.HitRecord) (string, map[string]interface{}) {
	props := make(map[string]interface{})
	color := func(tex material.Texture) [3]float64 {
		v := tex.Value(hit.U, hit.V, hit.Point)
		return [3]float64{v.X, v.Y, v.Z}
	}

	switch m := mat.(type) {
	case *material.Lambertian:
		props["albedo"] = color(m.Albedo)
		props["bumpMapped"] = m.NormalMap != nil
		return "lambertian", props

	case *material.Metal:
		props["albedo"] = color(m.Albedo)
		props["fuzz"] = m.Fuzz
		return "metal", props

	case *material.Dielectric:
		props["refractiveIndex"] = m.RefractiveIndex
		props["tint"] = color(m.Albedo)
		return "dielectric", props

	case *material.DiffuseLight:
		props["emission"] = color(m.Emission)
		props["attenuationFactor"] = m.AttenuationFactor
		return "emissive", props

	case *material.Isotropic:
		props["albedo"] = color(m.Albedo)
		return "isotropic", props

	default:
		return "unknown", props
	}
}

// geometryInfo reports the shape kind and its defining parameters
func geometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	props := make(map[string]interface{})
	vec := func(v core.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

	switch g := shape.(type) {
	case *lights.SphereLight:
		props["center"] = vec(g.Center)
		props["radius"] = g.Radius
		return "sphere_light", props

	case *lights.QuadLight:
		props["corner"] = vec(g.Corner)
		props["u"] = vec(g.U)
		props["v"] = vec(g.V)
		return "quad_light", props

	case *geometry.Sphere:
		props["center"] = vec(g.Center)
		props["radius"] = g.Radius
		return "sphere", props

	case *geometry.Quad:
		props["corner"] = vec(g.Corner)
		props["u"] = vec(g.U)
		props["v"] = vec(g.V)
		props["normal"] = vec(g.Normal)
		return "quad", props

	case *geometry.Disc:
		props["center"] = vec(g.Center)
		props["normal"] = vec(g.Normal)
		props["radius"] = g.Radius
		return "disc", props

	case *geometry.Box:
		props["center"] = vec(g.Center)
		props["size"] = vec(g.Size)
		return "box", props

	case *geometry.Cylinder:
		props["baseCenter"] = vec(g.BaseCenter)
		props["topCenter"] = vec(g.TopCenter)
		props["radius"] = g.Radius
		return "cylinder", props

	case *geometry.Cone:
		props["baseCenter"] = vec(g.BaseCenter)
		props["baseRadius"] = g.BaseRadius
		props["topCenter"] = vec(g.TopCenter)
		props["topRadius"] = g.TopRadius
		props["capped"] = g.Capped
		return "cone", props

	case *geometry.Triangle:
		props["v0"] = vec(g.V0)
		props["v1"] = vec(g.V1)
		props["v2"] = vec(g.V2)
		props["faceNormal"] = vec(g.FaceNormal())
		return "triangle", props

	case *geometry.TriangleMesh:
		props["triangleCount"] = g.TriangleCount()
		bbox := g.BoundingBox()
		props["boundingBox"] = map[string]interface{}{"min": vec(bbox.Min), "max": vec(bbox.Max)}
		return "triangle_mesh", props

	case *geometry.ConstantMedium:
		innerType, innerProps := geometryInfo(g.Boundary)
		props["boundary"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "constant_medium", props

	default:
		return "unknown", props
	}
}
