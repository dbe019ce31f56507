package pointcloud

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/XssZuiNB/Collision-Avoidance/device"
)

// Transform is a rigid transform T in SE(3), represented as a 4x4 matrix.
// Every color-ICP result is a Transform whose rotation submatrix is
// orthonormal to within 1e-5.
type Transform struct {
	M mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: mgl64.Ident4()}
}

// TransformFromColumnMajor builds a Transform directly from a column-major
// 4x4 matrix, the layout mgl64.Mat4 uses internally. Exists so sibling
// packages computing a transform numerically (registration's Gauss-Newton
// step, for instance) don't need to import mgl64 themselves.
func TransformFromColumnMajor(m [16]float64) Transform {
	return Transform{M: mgl64.Mat4(m)}
}

// NewTransform builds a Transform from a rotation matrix and translation.
func NewTransform(rotation mgl64.Mat3, translation mgl64.Vec3) Transform {
	m := rotation.Mat4()
	m[12], m[13], m[14] = translation[0], translation[1], translation[2]
	return Transform{M: m}
}

// NewTransformFromTranslation builds a pure translation, rotation held at
// identity.
func NewTransformFromTranslation(t device.Vec3) Transform {
	m := mgl64.Ident4()
	m[12], m[13], m[14] = float64(t.X), float64(t.Y), float64(t.Z)
	return Transform{M: m}
}

// Apply transforms a point by T.
func (t Transform) Apply(v device.Vec3) device.Vec3 {
	r := t.M.Mul4x1(mgl64.Vec4{float64(v.X), float64(v.Y), float64(v.Z), 1})
	return device.Vec3{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2])}
}

// ApplyNormal rotates (but does not translate) a normal vector by T.
func (t Transform) ApplyNormal(n device.Vec3) device.Vec3 {
	r := t.Rotation().Mul3x1(mgl64.Vec3{float64(n.X), float64(n.Y), float64(n.Z)})
	return device.Vec3{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2])}
}

// Rotation returns T's upper-left 3x3 rotation submatrix.
func (t Transform) Rotation() mgl64.Mat3 {
	return t.M.Mat3()
}

// Translation returns T's translation component.
func (t Transform) Translation() mgl64.Vec3 {
	return mgl64.Vec3{t.M[12], t.M[13], t.M[14]}
}

// Compose returns the transform that applies t first, then other:
// other * t, matching the Gauss-Newton update rule T ← exp(Δξ) · T, where
// other = exp(Δξ) and t is the running estimate.
func (t Transform) Compose(other Transform) Transform {
	return Transform{M: other.M.Mul4(t.M)}
}

// Inverse returns T⁻¹. For a rigid transform this is R^T, -R^T·t rather
// than a general matrix inverse, but since T's rotation block is only
// orthonormal to within numerical tolerance (not exactly), a full inverse
// is used for robustness.
func (t Transform) Inverse() Transform {
	return Transform{M: t.M.Inv()}
}

// OrthonormalError returns ‖RᵀR − I‖_F², the squared Frobenius norm bounded
// at 1e-5 by the SE(3) invariant every color-ICP result must satisfy.
func (t Transform) OrthonormalError() float64 {
	r := t.Rotation()
	prod := r.Transpose().Mul3(r)
	ident := mgl64.Ident3()
	sum := 0.0
	for i := 0; i < 9; i++ {
		d := prod[i] - ident[i]
		sum += d * d
	}
	return sum // squared Frobenius norm is sufficient for threshold comparisons
}

// Transform applies T to every point in the cloud in place, recomputing the
// bounding box but preserving normals (rotated, not
// invalidated — a rigid transform does not change a point's local
// neighborhood) and cluster ids (translation/rotation invariant).
func (c *Cloud) Transform(t Transform) {
	for i := range c.points {
		c.points[i].Position = t.Apply(c.points[i].Position)
	}
	if c.Normals != nil {
		for i := range c.Normals {
			c.Normals[i] = t.ApplyNormal(c.Normals[i]).Normalize()
		}
	}
	c.dirty = true
	c.recomputeBBox()
}
