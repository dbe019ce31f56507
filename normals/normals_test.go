package normals

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

func planarGridCloud() *pointcloud.Cloud {
	// A flat 5x5 grid of points in the z=0 plane; the true normal is
	// (0, 0, ±1) everywhere.
	points := make([]pointcloud.Point, 0, 25)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			points = append(points, pointcloud.Point{
				Position: device.Vec3{X: float32(i) * 0.1, Y: float32(j) * 0.1, Z: 0},
				Property: pointcloud.Active,
			})
		}
	}
	return pointcloud.NewFromHost(points)
}

func TestEstimateNormalsOnPlanarGrid(t *testing.T) {
	c := planarGridCloud()
	c.SensorOrigin = device.Vec3{X: 0.2, Y: 0.2, Z: 10}

	err := Estimate(c, 0.2)
	test.That(t, err, test.ShouldBeNil)

	normals, err := c.DownloadNormals()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(normals), test.ShouldEqual, c.PointsNumber())

	for _, n := range normals {
		// Every normal should be nearly (0, 0, 1), oriented toward the
		// sensor origin above the plane.
		test.That(t, math.Abs(float64(n.X)) < 0.05, test.ShouldBeTrue)
		test.That(t, math.Abs(float64(n.Y)) < 0.05, test.ShouldBeTrue)
		test.That(t, n.Z > 0.99, test.ShouldBeTrue)

		length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z))
		test.That(t, math.Abs(length-1) < 1e-4, test.ShouldBeTrue)
	}
}

func TestEstimateRejectsNonPositiveRadius(t *testing.T) {
	c := planarGridCloud()
	err := Estimate(c, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEstimateDemotesDegenerateNeighborhoods(t *testing.T) {
	// A point surrounded symmetrically along all three axes (an
	// octahedron) has an isotropic covariance matrix: every eigenvalue is
	// equal, so no single smallest-eigenvalue direction qualifies as "the"
	// normal. The center point should be demoted to Invalid with a zero
	// normal rather than returning an arbitrary direction.
	points := []pointcloud.Point{
		{Position: device.Vec3{X: 0, Y: 0, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 0.1, Y: 0, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: -0.1, Y: 0, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 0, Y: 0.1, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 0, Y: -0.1, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 0, Y: 0, Z: 0.1}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 0, Y: 0, Z: -0.1}, Property: pointcloud.Active},
	}
	c := pointcloud.NewFromHost(points)
	err := Estimate(c, 0.15)
	test.That(t, err, test.ShouldBeNil)

	downloaded := c.Download()
	test.That(t, downloaded[0].Property, test.ShouldEqual, pointcloud.Invalid)

	normals, err := c.DownloadNormals()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, normals[0], test.ShouldResemble, device.Vec3{})
}

func TestEstimateDemotesSparseNeighborhoods(t *testing.T) {
	// A single isolated point far from everything else has no plane to
	// fit and should be demoted to Invalid.
	points := []pointcloud.Point{
		{Position: device.Vec3{X: 0, Y: 0, Z: 0}, Property: pointcloud.Active},
		{Position: device.Vec3{X: 100, Y: 100, Z: 100}, Property: pointcloud.Active},
	}
	c := pointcloud.NewFromHost(points)
	err := Estimate(c, 0.5)
	test.That(t, err, test.ShouldBeNil)

	downloaded := c.Download()
	test.That(t, downloaded[0].Property, test.ShouldEqual, pointcloud.Invalid)
	test.That(t, downloaded[1].Property, test.ShouldEqual, pointcloud.Invalid)
}
