package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.viam.com/test"
)

type fakeSource struct {
	calls atomic.Int64
	err   error
}

func (s *fakeSource) Readings(ctx context.Context) (map[string]interface{}, error) {
	s.calls.Inc()
	if s.err != nil {
		return nil, s.err
	}
	return map[string]interface{}{
		"battery": 87,
		"yaw":     122.0,
		"pitch":   -3.0,
	}, nil
}

func TestRecorderConfigValidate(t *testing.T) {
	var cfg RecorderConfig
	test.That(t, cfg.Validate(""), test.ShouldNotBeNil)

	cfg = RecorderConfig{Dir: t.TempDir(), Interval: -time.Second}
	test.That(t, cfg.Validate(""), test.ShouldNotBeNil)

	cfg = RecorderConfig{Dir: t.TempDir()}
	test.That(t, cfg.Validate(""), test.ShouldBeNil)
}

func TestRecorderCaptures(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mock := clock.NewMock()
	src := &fakeSource{}

	rec, err := NewRecorder(RecorderConfig{Dir: t.TempDir(), Interval: time.Second}, src, logger)
	test.That(t, err, test.ShouldBeNil)
	rec.clock = mock

	rec.Start()
	// one capture happens immediately; tick until two more are on disk
	for i := 0; i < 1000 && src.calls.Load() < 3; i++ {
		mock.Add(time.Second)
	}
	test.That(t, rec.Close(context.Background()), test.ShouldBeNil)
	test.That(t, rec.Close(context.Background()), test.ShouldBeNil) // idempotent

	entries, err := os.ReadDir(filepath.Join(rec.SessionDir(), "imu"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(entries) >= 3, test.ShouldBeTrue)

	body, err := os.ReadFile(filepath.Join(rec.SessionDir(), "imu", entries[0].Name()))
	test.That(t, err, test.ShouldBeNil)
	// keys come out sorted
	test.That(t, string(body), test.ShouldEqual, "battery: 87\npitch: -3\nyaw: 122\n")

	tsBody, err := os.ReadFile(filepath.Join(rec.SessionDir(), "timestep.txt"))
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(tsBody)), "\n")
	test.That(t, len(lines) >= 3, test.ShouldBeTrue)
}

func TestRecorderSourceFailure(t *testing.T) {
	logger := golog.NewTestLogger(t)
	src := &fakeSource{err: errors.New("link lost")}

	rec, err := NewRecorder(RecorderConfig{Dir: t.TempDir()}, src, logger)
	test.That(t, err, test.ShouldBeNil)
	rec.Start()
	test.That(t, rec.Close(context.Background()), test.ShouldBeNil)

	// no readings were written
	entries, err := os.ReadDir(filepath.Join(rec.SessionDir(), "imu"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(entries), test.ShouldEqual, 0)
}

func TestParseKeyValues(t *testing.T) {
	kv := ParseKeyValues("pitch:-3;roll:0;yaw:122;")
	test.That(t, kv, test.ShouldResemble, map[string]float64{
		"pitch": -3, "roll": 0, "yaw": 122,
	})

	// junk entries are skipped rather than failing the parse
	kv = ParseKeyValues("battery:87;note:hello;;naked")
	test.That(t, kv, test.ShouldResemble, map[string]float64{"battery": 87})

	test.That(t, ParseKeyValues(""), test.ShouldResemble, map[string]float64{})
}
