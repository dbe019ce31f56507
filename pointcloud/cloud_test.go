package pointcloud

import (
	"testing"

	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/device"
)

func TestNewFromHostAndBBox(t *testing.T) {
	pts := []Point{
		{Position: device.Vec3{X: -1, Y: 0, Z: 0}, Property: Active},
		{Position: device.Vec3{X: 1, Y: 2, Z: 3}, Property: Active},
	}
	c := NewFromHost(pts)
	test.That(t, c.PointsNumber(), test.ShouldEqual, 2)

	bbox := c.GetBBox()
	test.That(t, bbox.Min, test.ShouldResemble, device.Vec3{X: -1, Y: 0, Z: 0})
	test.That(t, bbox.Max, test.ShouldResemble, device.Vec3{X: 1, Y: 2, Z: 3})
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewFromHost([]Point{{Position: device.Vec3{X: 1}}})
	clone := c.Clone()
	clone.points[0].Position.X = 42

	test.That(t, c.points[0].Position.X, test.ShouldEqual, float32(1))
}

func TestTransformIdentityIsNoOp(t *testing.T) {
	c := NewFromHost([]Point{{Position: device.Vec3{X: 1, Y: 2, Z: 3}}})
	c.Transform(Identity())
	test.That(t, c.points[0].Position, test.ShouldResemble, device.Vec3{X: 1, Y: 2, Z: 3})
}

func TestDownloadNormalsRequiresEstimate(t *testing.T) {
	c := NewFromHost([]Point{{Position: device.Vec3{}}})
	_, err := c.DownloadNormals()
	test.That(t, err, test.ShouldNotBeNil)
}
