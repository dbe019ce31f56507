package config

import (
	"testing"

	"go.viam.com/test"
)

func TestDefaultConfigValidates(t *testing.T) {
	test.That(t, Default().Validate(), test.ShouldBeNil)
}

func TestValidateRejectsBadDepthRange(t *testing.T) {
	c := Default()
	c.DepthMinM = 5
	c.DepthMaxM = 1
	test.That(t, c.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsNonPositiveVoxelLeaf(t *testing.T) {
	c := Default()
	c.VoxelLeafM = 0
	test.That(t, c.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsClusterMaxBelowMin(t *testing.T) {
	c := Default()
	c.ClusterMin = 100
	c.ClusterMax = 10
	test.That(t, c.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsNonPositiveICPIters(t *testing.T) {
	c := Default()
	c.ICPMaxIters = 0
	test.That(t, c.Validate(), test.ShouldNotBeNil)
}
