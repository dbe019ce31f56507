package device

import (
	"testing"

	"go.viam.com/test"
)

func TestUploadDownloadRoundTrip(t *testing.T) {
	pts := []Vec3{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0, Z: 5}}
	buf, err := Upload(pts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf.Len(), test.ShouldEqual, 2)
	test.That(t, buf.Download(), test.ShouldResemble, pts)
}

func TestNewBufferRejectsNegativeLength(t *testing.T) {
	_, err := NewBuffer(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewBufferZeroLength(t *testing.T) {
	buf, err := NewBuffer(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf.Len(), test.ShouldEqual, 0)
	test.That(t, buf.Download(), test.ShouldBeEmpty)
}

func TestSliceReordersAndFilters(t *testing.T) {
	buf, err := Upload([]Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}})
	test.That(t, err, test.ShouldBeNil)

	sliced, err := buf.Slice([]int{3, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sliced.Download(), test.ShouldResemble, []Vec3{{X: 3}, {X: 1}})
}

func TestSliceRejectsOutOfRangeIndex(t *testing.T) {
	buf, err := Upload([]Vec3{{X: 0}})
	test.That(t, err, test.ShouldBeNil)
	_, err = buf.Slice([]int{5})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetOverwritesEntry(t *testing.T) {
	buf, err := NewBuffer(2)
	test.That(t, err, test.ShouldBeNil)
	buf.Set(1, Vec3{X: 9, Y: 9, Z: 9})
	test.That(t, buf.At(1), test.ShouldResemble, Vec3{X: 9, Y: 9, Z: 9})
	test.That(t, buf.At(0), test.ShouldResemble, Vec3{})
}
