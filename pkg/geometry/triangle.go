package geometry

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Triangle represents a single triangle with optional per-vertex normals and
// texture coordinates. Without vertex normals the face normal is used flat.
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	N0, N1, N2 core.Vec3         // Per-vertex normals (face normal when not provided)
	UV0        core.Vec2         // Texture coordinates at V0
	UV1        core.Vec2         // Texture coordinates at V1
	UV2        core.Vec2         // Texture coordinates at V2
	Material   material.Material // Material of the triangle
	faceNormal core.Vec3         // Cached geometric normal
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a flat-shaded triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}

	t.faceNormal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.N0, t.N1, t.N2 = t.faceNormal, t.faceNormal, t.faceNormal
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).PadIfNeeded()

	return t
}

// NewSmoothTriangle creates a triangle with per-vertex normals and texture
// coordinates, interpolated across the face for smooth shading
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, uv0, uv1, uv2 core.Vec2, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		N0:       n0.Normalize(),
		N1:       n1.Normalize(),
		N2:       n2.Normalize(),
		UV0:      uv0,
		UV1:      uv1,
		UV2:      uv2,
		Material: mat,
	}

	t.faceNormal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).PadIfNeeded()

	return t
}

// Hit tests if a ray intersects the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	// Determinant near zero means the ray lies in the triangle's plane
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return false
	}

	hit.T = tParam
	hit.Point = ray.At(tParam)
	hit.Material = t.Material

	// Interpolate vertex attributes with barycentric weights
	w := 1.0 - u - v
	normal := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	hit.U = float32(w*t.UV0.X + u*t.UV1.X + v*t.UV2.X)
	hit.V = float32(w*t.UV0.Y + u*t.UV1.Y + v*t.UV2.Y)
	hit.SetFaceNormal(ray, normal)

	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// FaceNormal returns the geometric normal of the triangle's plane
func (t *Triangle) FaceNormal() core.Vec3 {
	return t.faceNormal
}
