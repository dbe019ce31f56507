// Package registration implements colour-ICP rigid alignment: a joint
// point-to-plane and photometric Gauss-Newton minimization that registers a
// source cloud onto a target cloud.
package registration

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
	"github.com/XssZuiNB/Collision-Avoidance/spatialindex"
)

// ColorWeight is the fixed trade-off between the geometric (point-to-plane)
// and photometric residual terms (σ), the standard colour-ICP literature
// value (Park, Zhou, Koltun 2017), kept as a constant rather than a tunable
// parameter.
const ColorWeight = 0.968

// minCorrespondences is the fewest valid point pairs a Gauss-Newton
// iteration needs before its normal equations are trusted; below this, the
// 6x6 system is too underdetermined to solve reliably.
const minCorrespondences = 6

// rmseConvergenceTol is the second half of Align's convergence test: the
// iteration-to-iteration change in geometric RMSE must drop below this
// before the step-norm test alone is trusted to mean convergence, rather
// than a large step that happens to land near another large step.
const rmseConvergenceTol = 1e-6

// State is colour-ICP's lifecycle.
type State int

const (
	// Uninitialized is the state before NewICP has succeeded.
	Uninitialized State = iota
	// Ready means Align can be called.
	Ready
	// Aligned means the last Align call returned a transform, either on
	// convergence or after running all its iterations.
	Aligned
	// Failed means the last Align call returned an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Aligned:
		return "aligned"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ICP holds everything precomputed from the target cloud: its positions,
// normals, intensities, tangent-plane colour gradients, and spatial index, so Align can
// be called repeatedly against different sources without rebuilding them.
type ICP struct {
	state State

	targetPositions []device.Vec3
	targetNormals   []device.Vec3
	// targetIntensities is each target point's own intensity, the constant
	// term of its tangent-plane colour function.
	targetIntensities []float32
	targetFrames      []tangentFrame
	targetIndex       *spatialindex.Index

	// neighborhoodRadius fits tangent-plane colour gradients and sizes the
	// target's spatial index cells.
	neighborhoodRadius float32
	// maxCorrespondenceDist rejects a correspondence whose nearest target
	// point is farther than this, independent of neighborhoodRadius.
	maxCorrespondenceDist float32

	// LastRMSE is the root-mean-square geometric residual of the last
	// completed Gauss-Newton iteration, the scalar convergence summary the
	// CUDA driver reports after each Align call.
	LastRMSE float64
}

// NewICP prepares a target cloud for registration. neighborhoodRadius sizes
// the target's spatial index and the neighborhood used to fit tangent-plane
// colour gradients; maxCorrespondenceDist independently bounds how far a
// source point's nearest target match may be before it is rejected as a
// correspondence. Returns pcerr.ErrMissingNormals if the target has no
// normals.
func NewICP(target *pointcloud.Cloud, neighborhoodRadius, maxCorrespondenceDist float32) (*ICP, error) {
	if neighborhoodRadius <= 0 {
		return nil, pcerr.InvalidArgument("neighborhood radius must be positive, got %v", neighborhoodRadius)
	}
	if maxCorrespondenceDist <= 0 {
		return nil, pcerr.InvalidArgument("max correspondence distance must be positive, got %v", maxCorrespondenceDist)
	}
	normals, err := target.DownloadNormals()
	if err != nil {
		return nil, err
	}

	points := target.Points()
	queryable := make([]bool, len(points))
	intensities := make([]float32, len(points))
	positions := target.Positions()
	for i, p := range points {
		queryable[i] = p.Property.Queryable()
		intensities[i] = p.Intensity()
	}

	frames, err := buildTangentFrames(positions, normals, intensities, queryable, neighborhoodRadius)
	if err != nil {
		return nil, err
	}

	idx, err := spatialindex.Build(positions, neighborhoodRadius)
	if err != nil {
		return nil, err
	}

	return &ICP{
		state:                 Ready,
		targetPositions:       positions,
		targetNormals:         normals,
		targetIntensities:     intensities,
		targetFrames:          frames,
		targetIndex:           idx,
		neighborhoodRadius:    neighborhoodRadius,
		maxCorrespondenceDist: maxCorrespondenceDist,
	}, nil
}

// State returns the registration's current lifecycle state.
func (r *ICP) State() State {
	return r.state
}

// Align runs up to maxIterations Gauss-Newton steps, minimizing the joint
// point-to-plane and photometric residual between source (transformed by
// the running estimate) and the target ICP was built from. It returns the
// transform that best maps source onto target, and mutates ICP's state to
// Aligned when it returns a transform (on convergence or once maxIterations
// steps have run) or Failed when it returns an error. Convergence requires both the
// norm of the last Gauss-Newton step to fall under tolerance and the
// change in geometric RMSE from the previous iteration to fall under
// rmseConvergenceTol.
func (r *ICP) Align(source *pointcloud.Cloud, maxIterations int, tolerance float64) (pointcloud.Transform, error) {
	if r.state == Uninitialized {
		return pointcloud.Transform{}, pcerr.InvalidArgument("ICP not initialized")
	}
	if maxIterations <= 0 {
		return pointcloud.Transform{}, pcerr.InvalidArgument("max_iterations must be positive, got %d", maxIterations)
	}

	srcPoints := source.Points()
	srcIntensity := make([]float32, len(srcPoints))
	srcQueryable := make([]bool, len(srcPoints))
	for i, p := range srcPoints {
		srcIntensity[i] = p.Intensity()
		srcQueryable[i] = p.Property.Queryable()
	}
	srcPositions := source.Positions()

	estimate := pointcloud.Identity()
	wg := float32(math.Sqrt(1 - ColorWeight))
	wc := float32(math.Sqrt(ColorWeight))
	prevRMSE := math.Inf(1)

	for iter := 0; iter < maxIterations; iter++ {
		H := mat.NewSymDense(6, nil)
		b := mat.NewVecDense(6, nil)
		correspondences := 0
		var geoResidualsSq []float64

		for i, pos := range srcPositions {
			if !srcQueryable[i] {
				continue
			}
			p := estimate.Apply(pos)
			j, ok := r.nearestWithinRadius(p)
			if !ok {
				continue
			}
			correspondences++

			q := r.targetPositions[j]
			n := r.targetNormals[j]
			frame := r.targetFrames[j]

			rg := n.Dot(p.Sub(q))
			jg := jacobianPointToPlane(p, n)
			geoResidualsSq = append(geoResidualsSq, float64(rg)*float64(rg))

			d := p.Sub(q)
			du := frame.u.Dot(d)
			dv := frame.v.Dot(d)
			rc := srcIntensity[i] - (r.targetIntensities[j] + du*frame.gu + dv*frame.gv)
			jc := jacobianPhotometric(p, frame)

			accumulateNormalEquations(H, b, jg, rg, wg)
			accumulateNormalEquations(H, b, jc, rc, wc)
		}

		if correspondences < minCorrespondences {
			r.state = Failed
			return pointcloud.Transform{}, pcerr.NoCorrespondences(
				"only %d correspondences found in iteration %d, need at least %d", correspondences, iter, minCorrespondences)
		}

		meanSq, err := stats.Mean(geoResidualsSq)
		if err == nil {
			r.LastRMSE = math.Sqrt(meanSq)
		}
		rmseDelta := math.Abs(r.LastRMSE - prevRMSE)
		prevRMSE = r.LastRMSE

		var delta mat.VecDense
		solveErr := delta.SolveVec(H, b)
		if solveErr != nil {
			r.state = Failed
			return pointcloud.Transform{}, pcerr.Singular("Gauss-Newton normal equations singular at iteration %d: %v", iter, solveErr)
		}

		step := deltaTransform(&delta)
		estimate = estimate.Compose(step)

		if deltaNorm(&delta) < tolerance && rmseDelta < rmseConvergenceTol {
			r.state = Aligned
			return estimate, nil
		}
	}

	r.state = Aligned
	return estimate, nil
}

// AlignCoarseToFine runs Align twice: once at coarseRadius for a rough
// initial estimate, then again at fineRadius starting from that estimate,
// the two-stage convenience the CUDA original's driver code uses to avoid
// getting stuck in a local minimum from a poor initial alignment.
func AlignCoarseToFine(
	target *pointcloud.Cloud,
	source *pointcloud.Cloud,
	coarseRadius, fineRadius float32,
	maxIterations int,
	tolerance float64,
) (pointcloud.Transform, error) {
	coarse, err := NewICP(target, coarseRadius, coarseRadius)
	if err != nil {
		return pointcloud.Transform{}, err
	}
	coarseT, err := coarse.Align(source, maxIterations, tolerance)
	if err != nil {
		return pointcloud.Transform{}, err
	}

	moved := source.Clone()
	moved.Transform(coarseT)

	fine, err := NewICP(target, fineRadius, fineRadius)
	if err != nil {
		return pointcloud.Transform{}, err
	}
	fineT, err := fine.Align(moved, maxIterations, tolerance)
	if err != nil {
		return pointcloud.Transform{}, err
	}

	return coarseT.Compose(fineT), nil
}

// nearestWithinRadius finds the closest target point to p, accepting it
// only if it is within r.maxCorrespondenceDist — correspondence search
// always goes through the target's spatial index, never a brute-force
// scan.
func (r *ICP) nearestWithinRadius(p device.Vec3) (int, bool) {
	j, ok := r.targetIndex.Nearest(p)
	if !ok {
		return 0, false
	}
	if device.DistanceSquared(p, r.targetPositions[j]) > r.maxCorrespondenceDist*r.maxCorrespondenceDist {
		return 0, false
	}
	return j, true
}
