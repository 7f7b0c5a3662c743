// Package exploration implements an online frontier exploration engine for a
// single flying agent with no prior map. Successive pose estimates grow a
// planar occupancy grid, and the engine emits rotate/move-forward primitives
// that drive the agent toward unexplored cells until no frontier remains.
package exploration

import (
	"math"

	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/num/quat"

	"github.com/skysweep/frontier/grid"
	"github.com/skysweep/frontier/spatialmath"
)

// The 4-connected neighbor offsets, in the order frontier cells are
// detected. The order is load-bearing: the default goal strategy takes the
// first unknown neighbor it finds.
var frontierOffsets = []grid.Index{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// An Explorer owns the occupancy grid and the agent's tracked index and
// heading. It is not safe for concurrent use; all mutation happens on the
// goroutine driving it, and external consumers read via GridSnapshot.
type Explorer struct {
	logger   golog.Logger
	grid     *grid.Grid
	strategy GoalStrategy

	current    grid.Index
	headingDeg float64

	headingFromPose bool
	state           State
}

// NewExplorer returns an engine with an all-unknown grid centered on the
// world origin. Zero-valued config fields take package defaults.
func NewExplorer(cfg Config, logger golog.Logger) (*Explorer, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.InitialGridSize == 0 {
		cfg.InitialGridSize = DefaultInitialGridSize
	}
	if cfg.Strategy == nil {
		cfg.Strategy = FirstFrontier{}
	}
	g, err := grid.New(cfg.Resolution, cfg.InitialGridSize)
	if err != nil {
		return nil, err
	}
	return &Explorer{
		logger:          logger,
		grid:            g,
		strategy:        cfg.Strategy,
		current:         g.Origin(),
		headingFromPose: cfg.HeadingFromPose,
		state:           StateIdle,
	}, nil
}

// UpdatePose consumes one pose sample: the yaw decomposed from q becomes the
// tracked heading, and the grid cell nearest (x, y) is marked free and
// visited and becomes the current index, growing the grid if needed. Samples
// must be applied in arrival order; the engine does no reordering or
// smoothing. z is accepted but unused by the planar grid.
func (e *Explorer) UpdatePose(x, y, z float64, q quat.Number) {
	e.headingDeg = spatialmath.QuatToEulerAngles(q).YawDegrees()

	idx := e.grid.WorldToIndex(x, y)
	shift := e.grid.EnsureContains(idx)
	e.current = idx.Add(shift)
	e.grid.SetFreeAndVisited(e.current)
}

// Frontier returns the 4-connected neighbors of the current index whose
// state is still unknown, in the fixed offset order. Probing a neighbor may
// grow the grid, in which case the current index and any already-collected
// frontier cells are shifted along with it.
func (e *Explorer) Frontier() []grid.Index {
	var frontier []grid.Index
	for _, off := range frontierOffsets {
		candidate := e.current.Add(off)
		shift := e.grid.EnsureContains(candidate)
		if shift != (grid.Index{}) {
			candidate = candidate.Add(shift)
			e.current = e.current.Add(shift)
			for i := range frontier {
				frontier[i] = frontier[i].Add(shift)
			}
		}
		if e.grid.At(candidate) == grid.Unknown {
			frontier = append(frontier, candidate)
		}
	}
	return frontier
}

// ChooseNextGoal runs the configured goal strategy over the current
// frontier. ok is false when the frontier is empty, i.e. exploration around
// the current cell is complete.
func (e *Explorer) ChooseNextGoal() (grid.Index, bool) {
	return e.strategy.ChooseGoal(e.current, e.Frontier())
}

// PlanMove converts a goal cell into the two motion primitives needed to
// reach it: a signed rotation in degrees (positive clockwise) normalized to
// (-180, 180], followed by a forward distance in meters. It does not mutate
// the engine; the rotation must be settled before translating since the
// agent cannot do both in one command.
func (e *Explorer) PlanMove(goal grid.Index) (rotationDeg, forwardM float64) {
	dx := float64(goal.Row - e.current.Row)
	dy := float64(goal.Col - e.current.Col)
	targetDeg := spatialmath.RadToDeg(math.Atan2(dy, dx))
	rotationDeg = spatialmath.NormalizeDegrees(targetDeg - e.headingDeg)
	forwardM = math.Hypot(dx, dy) * e.grid.Resolution()
	return rotationDeg, forwardM
}

// rotationIssued records that a rotation command was accepted. By default
// the commanded heading is assumed achieved until the next pose sample says
// otherwise; with HeadingFromPose set the tracked heading is left alone.
func (e *Explorer) rotationIssued(rotationDeg float64) {
	if e.headingFromPose {
		return
	}
	e.headingDeg = spatialmath.NormalizeDegrees(e.headingDeg + rotationDeg)
}

// CurrentIndex returns the grid cell nearest the last accepted pose.
func (e *Explorer) CurrentIndex() grid.Index {
	return e.current
}

// Heading returns the tracked heading in degrees.
func (e *Explorer) Heading() float64 {
	return e.headingDeg
}

// State returns the loop state. Terminal and intermediate values remain
// meaningful after Run returns; partial-iteration state is never torn.
func (e *Explorer) State() State {
	return e.state
}

// GridSnapshot returns an immutable copy of the occupancy grid.
func (e *Explorer) GridSnapshot() *grid.Snapshot {
	return e.grid.Snapshot()
}
