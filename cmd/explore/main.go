// Package main runs the frontier exploration loop against a recorded or
// live pose feed, optionally commanding a real drone.
package main

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/skysweep/frontier/exploration"
	"github.com/skysweep/frontier/grid"
	"github.com/skysweep/frontier/posesource"
	"github.com/skysweep/frontier/tello"
)

var logger = golog.NewDevelopmentLogger("explore")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	PoseFile        string  `flag:"poses,usage=trajectory file (x y z qx qy qz qw per line)"`
	PoseIntervalMs  int     `flag:"pose-interval-ms,usage=delay between replayed samples"`
	ListenAddr      string  `flag:"listen,usage=UDP address to receive pose state datagrams on (e.g. :8890)"`
	PoseTimeoutMs   int     `flag:"pose-timeout-ms,default=10000,usage=end exploration when no pose arrives within this window"`
	TelloAddr       string  `flag:"tello,usage=drone command address (empty logs motion commands instead)"`
	Resolution      float64 `flag:"resolution,default=0.5,usage=meters per grid cell"`
	GridSize        int     `flag:"grid-size,default=50,usage=initial grid dimension in cells"`
	HeadingFromPose bool    `flag:"heading-from-pose,usage=only trust pose-derived headings when planning"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	var src exploration.PoseSource
	switch {
	case argsParsed.PoseFile != "":
		replay, err := posesource.NewReplayFromFile(
			argsParsed.PoseFile, time.Duration(argsParsed.PoseIntervalMs)*time.Millisecond)
		if err != nil {
			return err
		}
		logger.Infow("replaying trajectory", "file", argsParsed.PoseFile, "samples", replay.Len())
		src = replay
	case argsParsed.ListenAddr != "":
		listener, err := posesource.NewUDPListener(
			argsParsed.ListenAddr, time.Duration(argsParsed.PoseTimeoutMs)*time.Millisecond, logger)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, listener.Close())
		}()
		src = listener
	default:
		return errors.New("one of --poses or --listen is required")
	}

	var exec exploration.MotionExecutor
	if argsParsed.TelloAddr != "" {
		client, err := tello.Dial(ctx, argsParsed.TelloAddr, logger)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, client.Close())
		}()
		exec = client
	} else {
		logger.Info("no drone address given; running dry")
		exec = &loggingExecutor{logger}
	}

	explorer, err := exploration.NewExplorer(exploration.Config{
		Resolution:      argsParsed.Resolution,
		InitialGridSize: argsParsed.GridSize,
		HeadingFromPose: argsParsed.HeadingFromPose,
	}, logger)
	if err != nil {
		return err
	}

	reason, err := explorer.Run(ctx, src, exec)
	if err != nil {
		return err
	}
	snap := explorer.GridSnapshot()
	rows, cols := snap.Bounds()
	logger.Infow("exploration finished",
		"reason", reason.String(),
		"grid_rows", rows,
		"grid_cols", cols,
		"free_cells", countFree(snap),
		"final_index", explorer.CurrentIndex(),
		"final_heading_deg", explorer.Heading(),
	)
	return nil
}

func countFree(snap *grid.Snapshot) int {
	var n int
	for _, row := range snap.Cells {
		for _, s := range row {
			if s == grid.Free {
				n++
			}
		}
	}
	return n
}

// loggingExecutor stands in for a drone, acknowledging every primitive.
type loggingExecutor struct {
	logger golog.Logger
}

func (e *loggingExecutor) Takeoff(ctx context.Context) error {
	e.logger.Info("takeoff")
	return nil
}

func (e *loggingExecutor) Land(ctx context.Context) error {
	e.logger.Info("land")
	return nil
}

func (e *loggingExecutor) Rotate(ctx context.Context, angleDeg float64) error {
	e.logger.Infow("rotate", "angle_deg", angleDeg)
	return nil
}

func (e *loggingExecutor) MoveForward(ctx context.Context, distanceM float64) error {
	e.logger.Infow("move forward", "distance_m", distanceM)
	return nil
}
