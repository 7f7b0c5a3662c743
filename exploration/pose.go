package exploration

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// ErrNoMorePoses is returned by a PoseSource whose stream has cleanly ended.
var ErrNoMorePoses = errors.New("no more pose samples")

// PoseSample is one world-frame position and orientation estimate of the
// agent. The engine consumes each sample exactly once and retains only the
// grid index and heading derived from it. Position is in meters; Z is
// accepted but unused by the planar grid.
type PoseSample struct {
	Position    r3.Vector
	Orientation quat.Number
}

// A PoseSource produces successive pose samples. Next blocks until a sample
// is available, the stream ends (ErrNoMorePoses), or ctx is done. Sources
// that apply their own read timeouts should surface expiry as ErrNoMorePoses
// so a silent feed ends exploration rather than failing it.
type PoseSource interface {
	Next(ctx context.Context) (PoseSample, error)
}
