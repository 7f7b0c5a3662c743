// Package posesource provides pose sample feeds for the exploration engine:
// an in-process channel, a trajectory file replayer, and a UDP state
// listener.
package posesource

import (
	"context"
	"sync"

	"github.com/skysweep/frontier/exploration"
)

// Channel is a PoseSource fed by another goroutine, typically a SLAM or
// localization pipeline running alongside the exploration loop.
type Channel struct {
	samples   chan exploration.PoseSample
	closeOnce sync.Once
}

// NewChannel returns a channel-backed source with the given buffer size.
func NewChannel(buffer int) *Channel {
	return &Channel{samples: make(chan exploration.PoseSample, buffer)}
}

// Push hands one sample to the consumer, blocking until it is accepted or
// ctx is done. Push must not be called after Close.
func (c *Channel) Push(ctx context.Context, sample exploration.PoseSample) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.samples <- sample:
		return nil
	}
}

// Close ends the stream; pending samples are still delivered, after which
// Next reports exploration.ErrNoMorePoses. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.samples)
	})
}

// Next implements exploration.PoseSource.
func (c *Channel) Next(ctx context.Context) (exploration.PoseSample, error) {
	select {
	case <-ctx.Done():
		return exploration.PoseSample{}, ctx.Err()
	case sample, ok := <-c.samples:
		if !ok {
			return exploration.PoseSample{}, exploration.ErrNoMorePoses
		}
		return sample, nil
	}
}
