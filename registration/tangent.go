package registration

import (
	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/spatialindex"
)

// tangentFrame caches, for one target point, everything color-ICP's
// photometric term needs without recomputing it every iteration: an
// orthonormal in-plane basis (u, v) and the local linear colour gradient
// across that plane, fit once from the point's neighbors at setup time.
type tangentFrame struct {
	u, v   device.Vec3
	gu, gv float32 // ∂intensity/∂u, ∂intensity/∂v
}

// buildTangentFrames precomputes a tangentFrame for every queryable point
// in positions/normals/intensities, using neighbors within radius to fit
// the colour gradient by least squares.
func buildTangentFrames(
	positions []device.Vec3,
	normals []device.Vec3,
	intensities []float32,
	queryable []bool,
	radius float32,
) ([]tangentFrame, error) {
	idx, err := spatialindex.Build(positions, radius)
	if err != nil {
		return nil, err
	}

	frames := make([]tangentFrame, len(positions))
	for i := range positions {
		if !queryable[i] {
			continue
		}
		u, v := orthonormalBasis(normals[i])
		frames[i].u, frames[i].v = u, v

		results, err := idx.RadiusSearch(positions[i], radius)
		if err != nil {
			return nil, err
		}

		// Fit intensity(j) - intensity(i) ≈ gu*du + gv*dv over the neighborhood by solving
		// the 2x2 normal equations of the least-squares problem.
		var suu, suv, svv, su, sv float64
		for _, r := range results {
			j := r.PointID
			if j == i || !queryable[j] {
				continue
			}
			d := positions[j].Sub(positions[i])
			du := float64(u.Dot(d))
			dv := float64(v.Dot(d))
			di := float64(intensities[j] - intensities[i])
			suu += du * du
			suv += du * dv
			svv += dv * dv
			su += du * di
			sv += dv * di
		}

		det := suu*svv - suv*suv
		if det > 1e-12 {
			frames[i].gu = float32((svv*su - suv*sv) / det)
			frames[i].gv = float32((suu*sv - suv*su) / det)
		}
		// Otherwise too few/degenerate neighbors: gradient stays zero,
		// which reduces the photometric term to "flat colour" locally.
	}
	return frames, nil
}

// orthonormalBasis returns two unit vectors spanning the plane
// perpendicular to n.
func orthonormalBasis(n device.Vec3) (device.Vec3, device.Vec3) {
	ref := device.Vec3{X: 1, Y: 0, Z: 0}
	if absf(n.X) > 0.9 {
		ref = device.Vec3{X: 0, Y: 1, Z: 0}
	}
	u := n.Cross(ref).Normalize()
	v := n.Cross(u).Normalize()
	return u, v
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
