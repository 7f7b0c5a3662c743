// Package tello speaks the Tello SDK text protocol over UDP: short ASCII
// commands such as "takeoff", "cw 90" or "forward 50", each answered by an
// "ok" or "error ..." datagram. The client implements the exploration
// engine's MotionExecutor so the engine itself stays protocol-free. Per the
// engine's contract there are no retries here; a rejected command surfaces
// as an error.
package tello

import (
	"context"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/skysweep/frontier/exploration"
	"github.com/skysweep/frontier/spatialmath"
	"github.com/skysweep/frontier/telemetry"
)

// DefaultAddr is the drone's command address in AP mode.
const DefaultAddr = "192.168.10.1:8889"

const defaultReplyTimeout = 5 * time.Second

// Client is a connection to one drone. Commands are serialized; the SDK
// answers one reply per command on the same socket.
type Client struct {
	conn         net.Conn
	replyTimeout time.Duration
	logger       golog.Logger

	mu sync.Mutex
}

var _ = exploration.MotionExecutor(&Client{})

// Dial connects to the drone at addr (DefaultAddr if empty) and enters SDK
// mode.
func Dial(ctx context.Context, addr string, logger golog.Logger) (*Client, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", addr)
	}
	client := &Client{
		conn:         conn,
		replyTimeout: defaultReplyTimeout,
		logger:       logger,
	}
	if err := client.exec(ctx, "command"); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "entering SDK mode"), conn.Close())
	}
	logger.Infow("connected", "addr", addr)
	return client, nil
}

// command sends one command and returns the trimmed reply.
func (c *Client) command(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.replyTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", err
	}
	if _, err := c.conn.Write([]byte(cmd)); err != nil {
		return "", errors.Wrapf(err, "sending %q", cmd)
	}
	buf := make([]byte, 1024)
	n, err := c.conn.Read(buf)
	if err != nil {
		return "", errors.Wrapf(err, "awaiting reply to %q", cmd)
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

// exec runs a command that must be acknowledged with "ok".
func (c *Client) exec(ctx context.Context, cmd string) error {
	reply, err := c.command(ctx, cmd)
	if err != nil {
		return err
	}
	if reply != "ok" {
		return errors.Errorf("drone rejected %q: %s", cmd, reply)
	}
	c.logger.Debugw("command acknowledged", "cmd", cmd)
	return nil
}

// Takeoff implements exploration.MotionExecutor.
func (c *Client) Takeoff(ctx context.Context) error {
	return c.exec(ctx, "takeoff")
}

// Land implements exploration.MotionExecutor.
func (c *Client) Land(ctx context.Context) error {
	return c.exec(ctx, "land")
}

// Rotate implements exploration.MotionExecutor. The SDK takes whole degrees
// with separate clockwise/counter-clockwise commands; a rotation that rounds
// to zero is skipped since the drone rejects it.
func (c *Client) Rotate(ctx context.Context, angleDeg float64) error {
	deg := int(math.Round(spatialmath.NormalizeDegrees(angleDeg)))
	switch {
	case deg > 0:
		return c.exec(ctx, fmt.Sprintf("cw %d", deg))
	case deg < 0:
		return c.exec(ctx, fmt.Sprintf("ccw %d", -deg))
	default:
		c.logger.Debug("skipping zero rotation")
		return nil
	}
}

// MoveForward implements exploration.MotionExecutor. Distances are commanded
// in whole centimeters; a distance that rounds to zero is skipped.
func (c *Client) MoveForward(ctx context.Context, distanceM float64) error {
	cm := int(math.Round(distanceM * 100))
	if cm <= 0 {
		c.logger.Debug("skipping zero forward move")
		return nil
	}
	return c.exec(ctx, fmt.Sprintf("forward %d", cm))
}

// Battery returns the battery percentage.
func (c *Client) Battery(ctx context.Context) (int, error) {
	reply, err := c.command(ctx, "battery?")
	if err != nil {
		return 0, err
	}
	pct, err := strconv.Atoi(reply)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing battery reply %q", reply)
	}
	return pct, nil
}

// Readings implements telemetry.Source. The battery query doubles as the
// liveness check and must succeed; the remaining queries are best effort
// since not all firmware revisions answer all of them.
func (c *Client) Readings(ctx context.Context) (map[string]interface{}, error) {
	battery, err := c.Battery(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"battery": battery}

	if reply, err := c.command(ctx, "attitude?"); err == nil {
		for k, v := range telemetry.ParseKeyValues(reply) {
			out[k] = v
		}
	} else {
		c.logger.Debugw("attitude query failed", "error", err)
	}
	for key, cmd := range map[string]string{
		"barometer_cm": "baro?",
		"tof_cm":       "tof?",
		"wifi_snr":     "wifi?",
	} {
		reply, err := c.command(ctx, cmd)
		if err != nil {
			c.logger.Debugw("state query failed", "cmd", cmd, "error", err)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(reply), "cm"), 64)
		if err != nil {
			c.logger.Debugw("unparsable state reply", "cmd", cmd, "reply", reply)
			continue
		}
		out[key] = v
	}
	return out, nil
}

// Close releases the command socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
