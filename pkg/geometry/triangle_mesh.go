package geometry

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// TriangleMesh represents an indexed triangle mesh. Vertices, normals and
// texture coordinates live in shared slices referenced by index, so large
// meshes don't duplicate attribute data per triangle. An internal BVH
// accelerates intersection.
type TriangleMesh struct {
	Vertices []core.Vec3 // Shared vertex positions
	Normals  []core.Vec3 // Per-vertex normals, empty for flat shading
	UVs      []core.Vec2 // Per-vertex texture coordinates, empty for none

	triangles []Shape
	bvh       *BVH
	bbox      core.AABB
	material  material.Material
}

// meshTriangle is one face of a TriangleMesh, addressing shared mesh data
// by vertex index
type meshTriangle struct {
	mesh       *TriangleMesh
	i0, i1, i2 int32
	bbox       core.AABB
}

// NewTriangleMesh creates a mesh from shared vertex data and face indices.
// Every group of 3 indices forms one triangle. Normals and uvs may be empty;
// when present they must have one entry per vertex. The optional transformer
// is applied to vertices and normals at construction time.
func NewTriangleMesh(vertices []core.Vec3, indices []int32, normals []core.Vec3, uvs []core.Vec2, transform *Transformer, mat material.Material) (*TriangleMesh, error) {
	if len(indices)%3 != 0 {
		return nil, core.NewConstructionError(nil, "mesh index count %d is not a multiple of 3", len(indices))
	}
	if len(normals) > 0 && len(normals) != len(vertices) {
		return nil, core.NewConstructionError(nil, "mesh has %d normals for %d vertices", len(normals), len(vertices))
	}
	if len(uvs) > 0 && len(uvs) != len(vertices) {
		return nil, core.NewConstructionError(nil, "mesh has %d uvs for %d vertices", len(uvs), len(vertices))
	}
	for _, idx := range indices {
		if idx < 0 || int(idx) >= len(vertices) {
			return nil, core.NewConstructionError(nil, "mesh face index %d out of range [0,%d)", idx, len(vertices))
		}
	}

	// Copy attribute slices so later caller mutations can't skew the BVH
	mesh := &TriangleMesh{
		Vertices: append([]core.Vec3(nil), vertices...),
		Normals:  append([]core.Vec3(nil), normals...),
		UVs:      append([]core.Vec2(nil), uvs...),
		material: mat,
	}

	if transform != nil {
		for i := range mesh.Vertices {
			mesh.Vertices[i] = transform.ApplyPoint(mesh.Vertices[i])
		}
		for i := range mesh.Normals {
			mesh.Normals[i] = transform.ApplyDirection(mesh.Normals[i]).Normalize()
		}
	}

	numTriangles := len(indices) / 3
	mesh.triangles = make([]Shape, numTriangles)
	mesh.bbox = core.EmptyAABB()

	for i := 0; i < numTriangles; i++ {
		tri := &meshTriangle{
			mesh: mesh,
			i0:   indices[i*3],
			i1:   indices[i*3+1],
			i2:   indices[i*3+2],
		}
		tri.bbox = core.NewAABBFromPoints(
			mesh.Vertices[tri.i0],
			mesh.Vertices[tri.i1],
			mesh.Vertices[tri.i2],
		).PadIfNeeded()

		mesh.triangles[i] = tri
		mesh.bbox = mesh.bbox.Union(tri.bbox)
	}

	mesh.bvh = NewBVH(mesh.triangles)

	return mesh, nil
}

// Hit tests if a ray intersects any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	return tm.bvh.Hit(ray, tMin, tMax, hit)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Hit tests one mesh face with the Möller-Trumbore algorithm, interpolating
// shared vertex attributes at the hit point
func (mt *meshTriangle) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	const epsilon = 1e-8

	v0 := mt.mesh.Vertices[mt.i0]
	v1 := mt.mesh.Vertices[mt.i1]
	v2 := mt.mesh.Vertices[mt.i2]

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
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
	hit.Material = mt.mesh.material

	w := 1.0 - u - v
	var normal core.Vec3
	if len(mt.mesh.Normals) > 0 {
		normal = mt.mesh.Normals[mt.i0].Multiply(w).
			Add(mt.mesh.Normals[mt.i1].Multiply(u)).
			Add(mt.mesh.Normals[mt.i2].Multiply(v)).
			Normalize()
	} else {
		normal = edge1.Cross(edge2).Normalize()
	}

	if len(mt.mesh.UVs) > 0 {
		uv0, uv1, uv2 := mt.mesh.UVs[mt.i0], mt.mesh.UVs[mt.i1], mt.mesh.UVs[mt.i2]
		hit.U = float32(w*uv0.X + u*uv1.X + v*uv2.X)
		hit.V = float32(w*uv0.Y + u*uv1.Y + v*uv2.Y)
	} else {
		hit.U, hit.V = float32(u), float32(v)
	}

	hit.SetFaceNormal(ray, normal)

	return true
}

// BoundingBox returns the padded bounds of this face
func (mt *meshTriangle) BoundingBox() core.AABB {
	return mt.bbox
}
