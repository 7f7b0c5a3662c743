package posesource

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/skysweep/frontier/exploration"
	"github.com/skysweep/frontier/spatialmath"
)

// Replay feeds back a recorded trajectory, optionally pacing samples at a
// fixed interval to mimic a live feed.
type Replay struct {
	samples  []exploration.PoseSample
	interval time.Duration
	clock    clock.Clock
	next     int
}

// NewReplay returns a source that yields the given samples in order.
// A positive interval delays every sample after the first.
func NewReplay(samples []exploration.PoseSample, interval time.Duration) *Replay {
	return &Replay{samples: samples, interval: interval, clock: clock.New()}
}

// NewReplayFromFile loads a trajectory file: one sample per line as
// "x y z qx qy qz qw" in meters and unit quaternion components, with blank
// lines and '#' comments ignored.
func NewReplayFromFile(path string, interval time.Duration) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []exploration.PoseSample
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, errors.Errorf("%s:%d: expected 7 fields, got %d", path, lineNum, len(fields))
		}
		vals := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d: field %d", path, lineNum, i+1)
			}
			vals[i] = v
		}
		samples = append(samples, exploration.PoseSample{
			Position:    r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]},
			Orientation: spatialmath.NewQuaternion(vals[3], vals[4], vals[5], vals[6]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return NewReplay(samples, interval), nil
}

// Len returns how many samples the replay holds in total.
func (r *Replay) Len() int {
	return len(r.samples)
}

// Next implements exploration.PoseSource.
func (r *Replay) Next(ctx context.Context) (exploration.PoseSample, error) {
	if r.next >= len(r.samples) {
		return exploration.PoseSample{}, exploration.ErrNoMorePoses
	}
	if r.next > 0 && r.interval > 0 {
		timer := r.clock.Timer(r.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return exploration.PoseSample{}, ctx.Err()
		case <-timer.C:
		}
	}
	sample := r.samples[r.next]
	r.next++
	return sample, nil
}
