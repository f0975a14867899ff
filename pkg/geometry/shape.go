package geometry

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit fills in the hit record and reports whether the ray intersects
	// the shape within (tMin, tMax). The record is only valid when the
	// return value is true.
	Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool

	// BoundingBox returns the shape's axis-aligned bounds
	BoundingBox() core.AABB
}
