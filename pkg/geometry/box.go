package geometry

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Box represents a rectangular box made up of 6 quads
type Box struct {
	Center   core.Vec3         // Center point of the box before transformation
	Size     core.Vec3         // Half-extents along each axis
	Material material.Material // Material for all faces
	faces    [6]*Quad          // The 6 quad faces
	bbox     core.AABB         // Cached bounding box
}

// NewBox creates a new box with the given center and half-extents, transformed
// by the optional transformer (nil means no transformation). A size of (1,1,1)
// creates a 2x2x2 box.
func NewBox(center, size core.Vec3, transform *Transformer, mat material.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Material: mat,
	}
	box.generateFaces(transform)
	return box
}

// NewAxisAlignedBox creates a new box without any transformation
func NewAxisAlignedBox(center, size core.Vec3, mat material.Material) *Box {
	return NewBox(center, size, nil, mat)
}

// generateFaces creates the 6 quad faces of the box
func (b *Box) generateFaces(transform *Transformer) {
	// The 8 corners of a unit box centered at origin
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	// Scale by half-extents, offset to center, then transform
	for i := range corners {
		corners[i] = core.NewVec3(
			corners[i].X*b.Size.X,
			corners[i].Y*b.Size.Y,
			corners[i].Z*b.Size.Z,
		).Add(b.Center)
		if transform != nil {
			corners[i] = transform.ApplyPoint(corners[i])
		}
	}

	// Each face is a corner plus two edge vectors

	// Front face (Z+): 4-5-6-7
	b.faces[0] = NewQuad(
		corners[4],
		corners[5].Subtract(corners[4]),
		corners[7].Subtract(corners[4]),
		b.Material,
	)

	// Back face (Z-): 1-0-3-2
	b.faces[1] = NewQuad(
		corners[1],
		corners[0].Subtract(corners[1]),
		corners[2].Subtract(corners[1]),
		b.Material,
	)

	// Right face (X+): 5-1-2-6
	b.faces[2] = NewQuad(
		corners[5],
		corners[1].Subtract(corners[5]),
		corners[6].Subtract(corners[5]),
		b.Material,
	)

	// Left face (X-): 0-4-7-3
	b.faces[3] = NewQuad(
		corners[0],
		corners[4].Subtract(corners[0]),
		corners[3].Subtract(corners[0]),
		b.Material,
	)

	// Top face (Y+): 3-7-6-2
	b.faces[4] = NewQuad(
		corners[3],
		corners[7].Subtract(corners[3]),
		corners[2].Subtract(corners[3]),
		b.Material,
	)

	// Bottom face (Y-): 4-0-1-5
	b.faces[5] = NewQuad(
		corners[4],
		corners[0].Subtract(corners[4]),
		corners[5].Subtract(corners[4]),
		b.Material,
	)

	b.bbox = core.NewAABBFromPoints(corners[0], corners[1], corners[2], corners[3],
		corners[4], corners[5], corners[6], corners[7])
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	hitAnything := false
	closestSoFar := tMax

	for _, face := range b.faces {
		if face.Hit(ray, tMin, closestSoFar, hit) {
			hitAnything = true
			closestSoFar = hit.T
		}
	}

	return hitAnything
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
