// Package config is the engine's configuration surface: one struct of
// enumerated options and a Validate check over them.
package config

import "github.com/XssZuiNB/Collision-Avoidance/pcerr"

// Config holds every tunable the point-cloud pipeline exposes. There is no
// persisted state, no environment variable binding, and no wire protocol —
// a Config is plain data passed by value. pccli takes only its flag
// defaults from Default and does not call Validate.
type Config struct {
	// DepthMinM, DepthMaxM clip the accepted depth range during RGB-D
	// back-projection.
	DepthMinM float32
	DepthMaxM float32

	// VoxelLeafM is the voxel size for downsampling.
	VoxelLeafM float32

	// OutlierRadiusM, OutlierMinNeighbors parameterize radius outlier
	// removal.
	OutlierRadiusM      float32
	OutlierMinNeighbors int

	// NormalRadiusM is the neighborhood radius for covariance-based normal
	// estimation.
	NormalRadiusM float32

	// ClusterTolM, ClusterMin parameterize Euclidean and convex
	// segmentation: join tolerance and minimum cluster size. ClusterMax is
	// only checked by Validate: the segmentation functions take no upper
	// size bound, so clusters larger than ClusterMax are kept.
	ClusterTolM float32
	ClusterMin  int
	ClusterMax  int

	// ICPMaxIters, ICPMaxCorrM, ICPNeighborhoodM control color-ICP.
	ICPMaxIters      int
	ICPMaxCorrM      float32
	ICPNeighborhoodM float32
}

// Default returns a Config with reasonable defaults for an indoor RGB-D
// sensor at human scale.
func Default() Config {
	return Config{
		DepthMinM:           0.1,
		DepthMaxM:           5.0,
		VoxelLeafM:          0.02,
		OutlierRadiusM:      0.05,
		OutlierMinNeighbors: 6,
		NormalRadiusM:       0.05,
		ClusterTolM:         0.02,
		ClusterMin:          10,
		ClusterMax:          1_000_000,
		ICPMaxIters:         30,
		ICPMaxCorrM:         0.05,
		ICPNeighborhoodM:    0.05,
	}
}

// Validate reports pcerr.ErrInvalidArgument on any option outside its valid
// range, with a message naming the offending field.
func (c Config) Validate() error {
	if c.DepthMinM < 0 || c.DepthMaxM < c.DepthMinM {
		return pcerr.InvalidArgument("invalid depth range [%v, %v]", c.DepthMinM, c.DepthMaxM)
	}
	if c.VoxelLeafM <= 0 {
		return pcerr.InvalidArgument("voxel_leaf_m must be positive, got %v", c.VoxelLeafM)
	}
	if c.OutlierRadiusM <= 0 {
		return pcerr.InvalidArgument("outlier_radius_m must be positive, got %v", c.OutlierRadiusM)
	}
	if c.OutlierMinNeighbors < 0 {
		return pcerr.InvalidArgument("outlier_min_neighbors must be >= 0, got %d", c.OutlierMinNeighbors)
	}
	if c.NormalRadiusM <= 0 {
		return pcerr.InvalidArgument("normal_radius_m must be positive, got %v", c.NormalRadiusM)
	}
	if c.ClusterTolM <= 0 {
		return pcerr.InvalidArgument("cluster_tol_m must be positive, got %v", c.ClusterTolM)
	}
	if c.ClusterMin < 1 {
		return pcerr.InvalidArgument("cluster_min must be >= 1, got %d", c.ClusterMin)
	}
	if c.ClusterMax < c.ClusterMin {
		return pcerr.InvalidArgument("cluster_max (%d) must be >= cluster_min (%d)", c.ClusterMax, c.ClusterMin)
	}
	if c.ICPMaxIters <= 0 {
		return pcerr.InvalidArgument("icp_max_iters must be positive, got %d", c.ICPMaxIters)
	}
	if c.ICPMaxCorrM <= 0 {
		return pcerr.InvalidArgument("icp_max_corr_m must be positive, got %v", c.ICPMaxCorrM)
	}
	if c.ICPNeighborhoodM <= 0 {
		return pcerr.InvalidArgument("icp_neighborhood_m must be positive, got %v", c.ICPNeighborhoodM)
	}
	return nil
}
