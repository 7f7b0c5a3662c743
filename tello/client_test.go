package tello

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

// fakeDrone answers SDK commands on a loopback UDP socket.
type fakeDrone struct {
	conn     net.PacketConn
	replies  map[string]string
	mu       sync.Mutex
	received []string
	done     chan struct{}
}

func newFakeDrone(t *testing.T) *fakeDrone {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	test.That(t, err, test.ShouldBeNil)
	d := &fakeDrone{
		conn: conn,
		replies: map[string]string{
			"command":  "ok",
			"takeoff":  "ok",
			"land":     "ok",
			"battery?": "87",
		},
		done: make(chan struct{}),
	}
	go d.serve()
	t.Cleanup(func() {
		test.That(t, conn.Close(), test.ShouldBeNil)
		<-d.done
	})
	return d
}

func (d *fakeDrone) serve() {
	defer close(d.done)
	buf := make([]byte, 1024)
	for {
		n, addr, err := d.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(string(buf[:n]))
		d.mu.Lock()
		d.received = append(d.received, cmd)
		reply, ok := d.replies[cmd]
		d.mu.Unlock()
		if !ok {
			reply = "ok"
		}
		if _, err := d.conn.WriteTo([]byte(reply), addr); err != nil {
			return
		}
	}
}

func (d *fakeDrone) setReply(cmd, reply string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[cmd] = reply
}

func (d *fakeDrone) addr() string {
	return d.conn.LocalAddr().String()
}

func (d *fakeDrone) commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.received))
	copy(out, d.received)
	return out
}

func dialFake(t *testing.T, drone *fakeDrone) *Client {
	t.Helper()
	client, err := Dial(context.Background(), drone.addr(), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		test.That(t, client.Close(), test.ShouldBeNil)
	})
	return client
}

func TestDialEntersSDKMode(t *testing.T) {
	drone := newFakeDrone(t)
	dialFake(t, drone)
	test.That(t, drone.commands(), test.ShouldResemble, []string{"command"})
}

func TestMotionCommands(t *testing.T) {
	drone := newFakeDrone(t)
	client := dialFake(t, drone)
	ctx := context.Background()

	test.That(t, client.Takeoff(ctx), test.ShouldBeNil)
	test.That(t, client.Rotate(ctx, 90), test.ShouldBeNil)
	test.That(t, client.Rotate(ctx, -45.2), test.ShouldBeNil)
	test.That(t, client.Rotate(ctx, 270), test.ShouldBeNil) // normalized to -90
	test.That(t, client.Rotate(ctx, 0.2), test.ShouldBeNil) // rounds to zero, skipped
	test.That(t, client.MoveForward(ctx, 0.5), test.ShouldBeNil)
	test.That(t, client.MoveForward(ctx, 0.001), test.ShouldBeNil) // skipped
	test.That(t, client.Land(ctx), test.ShouldBeNil)

	test.That(t, drone.commands(), test.ShouldResemble, []string{
		"command", "takeoff", "cw 90", "ccw 45", "ccw 90", "forward 50", "land",
	})
}

func TestRejectedCommand(t *testing.T) {
	drone := newFakeDrone(t)
	drone.setReply("takeoff", "error battery low")
	client := dialFake(t, drone)

	err := client.Takeoff(context.Background())
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "battery low")
}

func TestBattery(t *testing.T) {
	drone := newFakeDrone(t)
	client := dialFake(t, drone)

	pct, err := client.Battery(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pct, test.ShouldEqual, 87)
}

func TestReadings(t *testing.T) {
	drone := newFakeDrone(t)
	drone.setReply("attitude?", "pitch:-3;roll:0;yaw:122;")
	drone.setReply("baro?", "-50.087814")
	drone.setReply("tof?", "65cm")
	drone.setReply("wifi?", "90")
	client := dialFake(t, drone)

	readings, err := client.Readings(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, readings["battery"], test.ShouldEqual, 87)
	test.That(t, readings["yaw"], test.ShouldEqual, 122.0)
	test.That(t, readings["pitch"], test.ShouldEqual, -3.0)
	test.That(t, readings["barometer_cm"], test.ShouldAlmostEqual, -50.087814)
	test.That(t, readings["tof_cm"], test.ShouldEqual, 65.0)
	test.That(t, readings["wifi_snr"], test.ShouldEqual, 90.0)
}
