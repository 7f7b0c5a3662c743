package posesource

import (
	"context"
	"net"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/skysweep/frontier/exploration"
	"github.com/skysweep/frontier/spatialmath"
	"github.com/skysweep/frontier/telemetry"
)

// DefaultStatePort is the UDP port drone state feeds broadcast on.
const DefaultStatePort = 8890

// how often a blocked read wakes up to honor context cancellation
const pollInterval = 100 * time.Millisecond

// UDPListener consumes pose state datagrams in "key:val;key:val;" form with
// keys x, y, z (meters) and qx, qy, qz, qw. Datagrams missing any of those
// keys are skipped with a debug log.
type UDPListener struct {
	conn        net.PacketConn
	readTimeout time.Duration
	logger      golog.Logger
}

// NewUDPListener binds addr (e.g. ":8890") and returns a listener. A
// positive readTimeout bounds how long Next waits for a datagram; expiry is
// reported as exploration.ErrNoMorePoses so a silent feed ends exploration
// cleanly rather than wedging it.
func NewUDPListener(addr string, readTimeout time.Duration, logger golog.Logger) (*UDPListener, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	logger.Infow("listening for pose state datagrams", "addr", conn.LocalAddr().String())
	return &UDPListener{conn: conn, readTimeout: readTimeout, logger: logger}, nil
}

// Next implements exploration.PoseSource.
func (l *UDPListener) Next(ctx context.Context) (exploration.PoseSample, error) {
	var deadline time.Time
	if l.readTimeout > 0 {
		deadline = time.Now().Add(l.readTimeout)
	}
	buf := make([]byte, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return exploration.PoseSample{}, err
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return exploration.PoseSample{}, exploration.ErrNoMorePoses
		}
		if err := l.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return exploration.PoseSample{}, err
		}
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			// closed or otherwise unusable socket ends the stream
			return exploration.PoseSample{}, exploration.ErrNoMorePoses
		}
		sample, ok := l.parseDatagram(string(buf[:n]))
		if !ok {
			continue
		}
		return sample, nil
	}
}

func (l *UDPListener) parseDatagram(data string) (exploration.PoseSample, bool) {
	kv := telemetry.ParseKeyValues(data)
	for _, key := range []string{"x", "y", "z", "qx", "qy", "qz", "qw"} {
		if _, ok := kv[key]; !ok {
			l.logger.Debugw("skipping state datagram", "missing", key, "data", data)
			return exploration.PoseSample{}, false
		}
	}
	return exploration.PoseSample{
		Position:    r3.Vector{X: kv["x"], Y: kv["y"], Z: kv["z"]},
		Orientation: spatialmath.NewQuaternion(kv["qx"], kv["qy"], kv["qz"], kv["qw"]),
	}, true
}

// Close releases the socket; a blocked Next returns ErrNoMorePoses.
func (l *UDPListener) Close() error {
	return l.conn.Close()
}
