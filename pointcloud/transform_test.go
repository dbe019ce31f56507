package pointcloud

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/device"
)

func TestComposeThenInverseIsIdentity(t *testing.T) {
	rot := mgl64.Rotate3DZ(0.3)
	a := NewTransform(rot, mgl64.Vec3{1, 2, 3})
	b := NewTransformFromTranslation(device.Vec3{X: 0.5, Y: -0.5, Z: 1})

	composed := a.Compose(b)
	roundTrip := composed.Compose(composed.Inverse())

	test.That(t, roundTrip.OrthonormalError() < 1e-9, test.ShouldBeTrue)

	p := device.Vec3{X: 1, Y: 1, Z: 1}
	back := roundTrip.Apply(p)
	test.That(t, back.X-p.X < 1e-6, test.ShouldBeTrue)
	test.That(t, back.Y-p.Y < 1e-6, test.ShouldBeTrue)
	test.That(t, back.Z-p.Z < 1e-6, test.ShouldBeTrue)
}

func TestIdentityHasZeroOrthonormalError(t *testing.T) {
	test.That(t, Identity().OrthonormalError() < 1e-12, test.ShouldBeTrue)
}

func TestApplyNormalIgnoresTranslation(t *testing.T) {
	tr := NewTransformFromTranslation(device.Vec3{X: 10, Y: 20, Z: 30})
	n := device.Vec3{X: 0, Y: 0, Z: 1}
	out := tr.ApplyNormal(n)
	test.That(t, out, test.ShouldResemble, n)
}
