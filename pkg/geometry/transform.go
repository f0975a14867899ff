package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtrace/pkg/core"
)

// Transformer applies an affine transformation to points and directions.
// Transformations compose right-to-left: the last call in a chain is
// applied to the geometry first.
type Transformer struct {
	matrix mgl64.Mat4
}

// NewTransformer creates an identity transformer
func NewTransformer() *Transformer {
	return &Transformer{matrix: mgl64.Ident4()}
}

// Translate moves geometry by the given offset
func (t *Transformer) Translate(offset core.Vec3) *Transformer {
	return &Transformer{matrix: t.matrix.Mul4(mgl64.Translate3D(offset.X, offset.Y, offset.Z))}
}

// RotateX rotates geometry around the x axis by angle radians
func (t *Transformer) RotateX(angle float64) *Transformer {
	return &Transformer{matrix: t.matrix.Mul4(mgl64.HomogRotate3DX(angle))}
}

// RotateY rotates geometry around the y axis by angle radians
func (t *Transformer) RotateY(angle float64) *Transformer {
	return &Transformer{matrix: t.matrix.Mul4(mgl64.HomogRotate3DY(angle))}
}

// RotateZ rotates geometry around the z axis by angle radians
func (t *Transformer) RotateZ(angle float64) *Transformer {
	return &Transformer{matrix: t.matrix.Mul4(mgl64.HomogRotate3DZ(angle))}
}

// Scale scales geometry by the given factors
func (t *Transformer) Scale(x, y, z float64) *Transformer {
	return &Transformer{matrix: t.matrix.Mul4(mgl64.Scale3D(x, y, z))}
}

// ApplyPoint transforms a position
func (t *Transformer) ApplyPoint(p core.Vec3) core.Vec3 {
	v := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, t.matrix)
	return core.NewVec3(v.X(), v.Y(), v.Z())
}

// ApplyDirection transforms a direction, ignoring translation
func (t *Transformer) ApplyDirection(d core.Vec3) core.Vec3 {
	v := mgl64.TransformNormal(mgl64.Vec3{d.X, d.Y, d.Z}, t.matrix)
	return core.NewVec3(v.X(), v.Y(), v.Z())
}

// Degrees converts an angle in degrees to radians
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180.0
}
