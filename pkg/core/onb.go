package core

import "math"

// ONB is an orthonormal basis built around a w axis, used to move
// tangent-space directions (cosine samples, normal map values) into world space
type ONB struct {
	U, V, W Vec3
}

// NewONB builds an orthonormal basis with w aligned to the given direction
func NewONB(w Vec3) ONB {
	unitW := w.Normalize()

	var a Vec3
	if math.Abs(unitW.X) > 0.9 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}

	v := unitW.Cross(a).Normalize()
	u := unitW.Cross(v)

	return ONB{U: u, V: v, W: unitW}
}

// Local transforms a vector from basis coordinates to world coordinates
func (o ONB) Local(a Vec3) Vec3 {
	return o.U.Multiply(a.X).Add(o.V.Multiply(a.Y)).Add(o.W.Multiply(a.Z))
}
