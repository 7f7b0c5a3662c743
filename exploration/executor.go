package exploration

import "context"

// A MotionExecutor carries out discrete motion primitives on the physical
// agent. Implementations decide any retry or smoothing policy; the engine
// treats a returned error as fatal and lands.
type MotionExecutor interface {
	// Takeoff readies the agent for flight. Its successful return is the
	// engine's begin signal.
	Takeoff(ctx context.Context) error
	// Land brings the agent down. Always attempted on loop exit.
	Land(ctx context.Context) error
	// Rotate turns the agent in place by the given signed degrees;
	// positive is clockwise.
	Rotate(ctx context.Context, angleDeg float64) error
	// MoveForward translates the agent along its current heading.
	MoveForward(ctx context.Context, distanceM float64) error
}
