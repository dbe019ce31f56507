package registration

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

// jacobian6 is a residual's derivative with respect to the se(3)
// perturbation [ωx, ωy, ωz, tx, ty, tz] of the running transform.
type jacobian6 [6]float32

// jacobianPointToPlane differentiates n·(p - q) with respect to an se(3)
// perturbation of p: r(ξ) ≈ n·(p-q) + (p×n)·ω + n·t.
func jacobianPointToPlane(p, n device.Vec3) jacobian6 {
	c := p.Cross(n)
	return jacobian6{c.X, c.Y, c.Z, n.X, n.Y, n.Z}
}

// jacobianPhotometric differentiates the photometric residual
// intensity(p) - [intensity(q) + gu*(u·(p-q)) + gv*(v·(p-q))] with respect
// to an se(3) perturbation of p, holding the target's intensity and fitted
// gradient fixed:
// d/dξ[gu*(u·(p-q)) + gv*(v·(p-q))] = gu*[(p×u)·ω + u·t] + gv*[(p×v)·ω + v·t].
func jacobianPhotometric(p device.Vec3, frame tangentFrame) jacobian6 {
	cu := p.Cross(frame.u)
	cv := p.Cross(frame.v)
	var j jacobian6
	j[0] = -(frame.gu*cu.X + frame.gv*cv.X)
	j[1] = -(frame.gu*cu.Y + frame.gv*cv.Y)
	j[2] = -(frame.gu*cu.Z + frame.gv*cv.Z)
	j[3] = -(frame.gu*frame.u.X + frame.gv*frame.v.X)
	j[4] = -(frame.gu*frame.u.Y + frame.gv*frame.v.Y)
	j[5] = -(frame.gu*frame.u.Z + frame.gv*frame.v.Z)
	return j
}

// accumulateNormalEquations folds one weighted residual into the running
// Gauss-Newton normal equations H·Δξ = b, where H += w²·J·Jᵀ and
// b -= w²·r·J.
func accumulateNormalEquations(H *mat.SymDense, b *mat.VecDense, j jacobian6, residual float32, weight float32) {
	w2 := float64(weight * weight)
	for row := 0; row < 6; row++ {
		for col := row; col < 6; col++ {
			H.SetSym(row, col, H.At(row, col)+w2*float64(j[row])*float64(j[col]))
		}
		b.SetVec(row, b.AtVec(row)-w2*float64(residual)*float64(j[row]))
	}
}

// deltaTransform builds the incremental rigid transform exp(Δξ) from a
// solved Gauss-Newton step, using the exact Rodrigues rotation formula
// rather than a first-order approximation so larger steps stay a valid
// rotation.
func deltaTransform(delta *mat.VecDense) pointcloud.Transform {
	wx, wy, wz := delta.AtVec(0), delta.AtVec(1), delta.AtVec(2)
	tx, ty, tz := delta.AtVec(3), delta.AtVec(4), delta.AtVec(5)

	theta := math.Sqrt(wx*wx + wy*wy + wz*wz)
	var rotation [9]float64 // row-major 3x3
	if theta < 1e-12 {
		rotation = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	} else {
		ax, ay, az := wx/theta, wy/theta, wz/theta
		s, c := math.Sin(theta), math.Cos(theta)
		t := 1 - c
		rotation = [9]float64{
			t*ax*ax + c, t*ax*ay - s*az, t*ax*az + s*ay,
			t*ax*ay + s*az, t*ay*ay + c, t*ay*az - s*ax,
			t*ax*az - s*ay, t*ay*az + s*ax, t*az*az + c,
		}
	}

	var m [16]float64
	m[0], m[4], m[8] = rotation[0], rotation[1], rotation[2]
	m[1], m[5], m[9] = rotation[3], rotation[4], rotation[5]
	m[2], m[6], m[10] = rotation[6], rotation[7], rotation[8]
	m[3], m[7], m[11] = 0, 0, 0
	m[12], m[13], m[14], m[15] = tx, ty, tz, 1

	return pointcloud.TransformFromColumnMajor(m)
}

// deltaNorm returns the Euclidean norm of a solved Gauss-Newton step,
// compared against the caller's convergence tolerance.
func deltaNorm(delta *mat.VecDense) float64 {
	sum := 0.0
	for i := 0; i < delta.Len(); i++ {
		v := delta.AtVec(i)
		sum += v * v
	}
	return math.Sqrt(sum)
}
