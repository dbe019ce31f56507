// Command pccli is a thin batch-processing wrapper around the point-cloud
// engine: load a cloud from disk, run the configured pipeline stages, write
// the result back out.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/XssZuiNB/Collision-Avoidance/config"
	"github.com/XssZuiNB/Collision-Avoidance/filters"
	"github.com/XssZuiNB/Collision-Avoidance/logging"
	"github.com/XssZuiNB/Collision-Avoidance/normals"
	"github.com/XssZuiNB/Collision-Avoidance/pcerr"
	"github.com/XssZuiNB/Collision-Avoidance/pointcloud"
	"github.com/XssZuiNB/Collision-Avoidance/segmentation"
)

// Exit codes: 0 success, 1 input error, 2 device error.
const (
	exitOK          = 0
	exitInputError  = 1
	exitDeviceError = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) (exitCode int) {
	log := logging.NewLogger("pccli")

	var pipelineErr error
	defer func() {
		// Sync flushes zap's buffered output; combine its error with
		// whatever the pipeline itself returned rather than discarding one.
		if err := multierr.Combine(pipelineErr, log.Sync()); err != nil && exitCode == exitOK {
			exitCode = exitInputError
		}
	}()

	cfg := config.Default()

	app := &cli.App{
		Name:  "pccli",
		Usage: "batch point-cloud processing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "input .ply or .bin path"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output .ply or .bin path"},
			&cli.StringFlag{Name: "stages", Value: "voxel,outlier,normals", Usage: "comma-separated pipeline stages: voxel,outlier,normals,euclidean,convex"},
			&cli.Float64Flag{Name: "voxel-leaf-m", Value: float64(cfg.VoxelLeafM)},
			&cli.Float64Flag{Name: "outlier-radius-m", Value: float64(cfg.OutlierRadiusM)},
			&cli.IntFlag{Name: "outlier-min-neighbors", Value: cfg.OutlierMinNeighbors},
			&cli.Float64Flag{Name: "normal-radius-m", Value: float64(cfg.NormalRadiusM)},
			&cli.Float64Flag{Name: "cluster-tol-m", Value: float64(cfg.ClusterTolM)},
			&cli.IntFlag{Name: "cluster-min", Value: cfg.ClusterMin},
		},
		Action: func(c *cli.Context) error {
			return runPipeline(c, log)
		},
	}

	if err := app.Run(args); err != nil {
		pipelineErr = err
		log.Errorw("pccli failed", "error", err)
		if pcerr.Is(err, pcerr.ErrDeviceError) || pcerr.Is(err, pcerr.ErrOutOfMemory) {
			return exitDeviceError
		}
		return exitInputError
	}
	return exitOK
}

func runPipeline(c *cli.Context, log *logging.Logger) error {
	inPath := c.String("in")
	outPath := c.String("out")
	stages := strings.Split(c.String("stages"), ",")

	cloud, err := loadCloud(inPath)
	if err != nil {
		return err
	}
	log.Infow("loaded cloud", "points", cloud.PointsNumber(), "path", inPath)

	for _, stage := range stages {
		switch strings.TrimSpace(stage) {
		case "voxel":
			cloud, err = filters.VoxelGridDownsample(cloud, float32(c.Float64("voxel-leaf-m")))
		case "outlier":
			cloud, err = filters.RadiusOutlierRemoval(cloud, float32(c.Float64("outlier-radius-m")), c.Int("outlier-min-neighbors"))
		case "normals":
			err = normals.Estimate(cloud, float32(c.Float64("normal-radius-m")))
		case "euclidean":
			err = segmentation.Euclidean(cloud, float32(c.Float64("cluster-tol-m")), c.Int("cluster-min"))
		case "convex":
			err = segmentation.Convex(cloud, float32(c.Float64("cluster-tol-m")), c.Int("cluster-min"))
		case "":
			// allow a trailing comma without complaint
		default:
			err = pcerr.InvalidArgument("unknown pipeline stage %q", stage)
		}
		if err != nil {
			return fmt.Errorf("stage %q: %w", stage, err)
		}
		log.Debugw("stage complete", "stage", stage, "points", cloud.PointsNumber())
	}

	return saveCloud(outPath, cloud)
}

func loadCloud(path string) (*pointcloud.Cloud, error) {
	if strings.HasSuffix(path, ".ply") {
		return loadPLY(path)
	}
	return loadHostArray(path)
}

func saveCloud(path string, c *pointcloud.Cloud) error {
	if strings.HasSuffix(path, ".ply") {
		return savePLY(path, c)
	}
	return saveHostArray(path, c)
}
