package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/XssZuiNB/Collision-Avoidance/device"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
)

func TestHostArrayRoundTrip(t *testing.T) {
	points := []pointcloud.Point{
		{Position: device.Vec3{X: 1, Y: 2, Z: 3}, Color: device.RGB{R: 0.1, G: 0.2, B: 0.3}, Property: pointcloud.Active},
		{Position: device.Vec3{X: -1, Y: 0, Z: 0}, Color: device.RGB{R: 1, G: 1, B: 1}, Property: pointcloud.Inactive},
	}
	c := pointcloud.NewFromHost(points)

	dir := t.TempDir()
	path := filepath.Join(dir, "cloud.bin")
	test.That(t, saveHostArray(path, c), test.ShouldBeNil)

	loaded, err := loadHostArray(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.PointsNumber(), test.ShouldEqual, 2)

	got := loaded.Download()
	test.That(t, got[0].Position, test.ShouldResemble, points[0].Position)
	test.That(t, got[0].Property, test.ShouldEqual, points[0].Property)
	test.That(t, got[1].Property, test.ShouldEqual, pointcloud.Inactive)

	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldEqual, int64(2*recordSize))
}

func TestPLYRoundTrip(t *testing.T) {
	points := []pointcloud.Point{
		{Position: device.Vec3{X: 0.5, Y: 1.5, Z: -2}, Color: device.RGB{R: 0.5, G: 0.25, B: 1}, Property: pointcloud.Active},
	}
	c := pointcloud.NewFromHost(points)

	dir := t.TempDir()
	path := filepath.Join(dir, "cloud.ply")
	test.That(t, savePLY(path, c), test.ShouldBeNil)

	loaded, err := loadPLY(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.PointsNumber(), test.ShouldEqual, 1)
}
