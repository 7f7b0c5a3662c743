package exploration

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// State is where the exploration loop currently is.
type State uint8

// The loop states. Landed is terminal.
const (
	StateIdle = State(iota)
	StateFlying
	StateSensing
	StateMoving
	StateLanded
)

func (s State) String() string {
	switch s {
	case StateFlying:
		return "flying"
	case StateSensing:
		return "sensing"
	case StateMoving:
		return "moving"
	case StateLanded:
		return "landed"
	default:
		return "idle"
	}
}

// TerminationReason says why the exploration loop stopped.
type TerminationReason uint8

// The set of termination reasons. Only MotionFailed accompanies an error;
// the others are orderly stops.
const (
	// ExplorationComplete means no frontier remained.
	ExplorationComplete = TerminationReason(iota)
	// PoseStreamExhausted means the pose source ended.
	PoseStreamExhausted
	// Cancelled means the caller's context was done.
	Cancelled
	// MotionFailed means the executor rejected a command.
	MotionFailed
)

func (r TerminationReason) String() string {
	switch r {
	case ExplorationComplete:
		return "exploration complete"
	case PoseStreamExhausted:
		return "pose stream exhausted"
	case Cancelled:
		return "cancelled"
	case MotionFailed:
		return "motion failed"
	default:
		return "unknown"
	}
}

// Run drives the full exploration loop: take off, then repeatedly consume a
// pose sample, update the grid, and pursue the first frontier cell until no
// frontier remains, the pose stream ends, ctx is cancelled, or a motion
// command fails. One sample is processed fully before the next is requested;
// there is no internal concurrency. Landing is always attempted on the way
// out and any landing error is combined into err. The grid and agent state
// stay consistent and queryable after every return, fatal ones included.
func (e *Explorer) Run(ctx context.Context, src PoseSource, exec MotionExecutor) (reason TerminationReason, err error) {
	if err := exec.Takeoff(ctx); err != nil {
		e.state = StateLanded
		return MotionFailed, errors.Wrap(err, "takeoff rejected")
	}
	e.state = StateFlying
	defer func() {
		e.state = StateLanded
		if landErr := exec.Land(ctx); landErr != nil {
			err = multierr.Combine(err, errors.Wrap(landErr, "landing rejected"))
		}
	}()

	for {
		// cooperative stop, honored before any further motion command
		if ctx.Err() != nil {
			e.logger.Info("cancellation requested; landing")
			return Cancelled, nil
		}

		e.state = StateSensing
		sample, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrNoMorePoses) {
				e.logger.Info("no more pose updates; landing")
				return PoseStreamExhausted, nil
			}
			if ctx.Err() != nil {
				e.logger.Info("cancellation requested while waiting for pose; landing")
				return Cancelled, nil
			}
			return PoseStreamExhausted, errors.Wrap(err, "pose source failed")
		}
		e.UpdatePose(sample.Position.X, sample.Position.Y, sample.Position.Z, sample.Orientation)

		goal, ok := e.ChooseNextGoal()
		if !ok {
			e.logger.Info("exploration complete")
			return ExplorationComplete, nil
		}

		if ctx.Err() != nil {
			e.logger.Info("cancellation requested; landing")
			return Cancelled, nil
		}

		e.state = StateMoving
		rotationDeg, forwardM := e.PlanMove(goal)
		e.logger.Debugw("pursuing frontier cell",
			"goal", goal, "rotation_deg", rotationDeg, "forward_m", forwardM)
		if err := exec.Rotate(ctx, rotationDeg); err != nil {
			return MotionFailed, errors.Wrap(err, "rotate rejected")
		}
		e.rotationIssued(rotationDeg)
		if err := exec.MoveForward(ctx, forwardM); err != nil {
			return MotionFailed, errors.Wrap(err, "move forward rejected")
		}
	}
}
