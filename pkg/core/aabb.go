package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the identity element for Union: a box that contains
// nothing and disappears when united with any real box
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return EmptyAABB()
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// parallelEps is the direction magnitude below which a ray is treated as
// parallel to a slab axis. The reciprocal of a smaller component overflows
// into inf/NaN arithmetic that can discard valid hits.
const parallelEps = 1e-12

// Hit tests if a ray intersects with this AABB using the slab method.
// Rays parallel to an axis are resolved by origin containment instead of
// reciprocal arithmetic.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		boxMin := aabb.Min.Axis(axis)
		boxMax := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		if math.Abs(direction) < parallelEps {
			// Ray is parallel to this slab: it intersects only if the
			// origin already lies between the planes
			if origin < boxMin || origin > boxMax {
				return false
			}
			continue
		}

		invDirection := ray.InvDirection.Axis(axis)
		t1 := (boxMin - origin) * invDirection
		t2 := (boxMax - origin) * invDirection

		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Contains reports whether the point lies inside or on the boundary
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// ContainsAABB reports whether other lies entirely within this box
func (aabb AABB) ContainsAABB(other AABB) bool {
	return aabb.Contains(other.Min) && aabb.Contains(other.Max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// padDelta is the half-thickness given to boxes that are flat along an axis,
// so planar geometry like quads and axis-aligned triangles still has volume
// for the slab test.
const padDelta = 1e-4

// PadIfNeeded returns an AABB expanded along any axis thinner than padDelta
func (aabb AABB) PadIfNeeded() AABB {
	padded := aabb
	if padded.Max.X-padded.Min.X < padDelta {
		padded.Min.X -= padDelta
		padded.Max.X += padDelta
	}
	if padded.Max.Y-padded.Min.Y < padDelta {
		padded.Min.Y -= padDelta
		padded.Max.Y += padDelta
	}
	if padded.Max.Z-padded.Min.Z < padDelta {
		padded.Min.Z -= padDelta
		padded.Max.Z += padDelta
	}
	return padded
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
