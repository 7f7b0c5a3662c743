package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// A Source produces one set of named readings per call, e.g. battery,
// attitude and barometer values from a drone.
type Source interface {
	Readings(ctx context.Context) (map[string]interface{}, error)
}

// DefaultInterval is how often readings are captured when the config does
// not say otherwise.
const DefaultInterval = time.Second

// RecorderConfig describes how to configure a Recorder.
type RecorderConfig struct {
	// Dir is the parent directory; each recorder run writes into a fresh
	// session subdirectory beneath it.
	Dir string `json:"dir"`
	// Interval between captures; zero means DefaultInterval.
	Interval time.Duration `json:"interval"`
}

// Validate ensures all parts of the config are valid.
func (c *RecorderConfig) Validate(path string) error {
	if c.Dir == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "dir")
	}
	if c.Interval < 0 {
		return goutils.NewConfigValidationError(path, errors.New("interval cannot be negative"))
	}
	return nil
}

// A Recorder samples a Source on a fixed interval in the background,
// writing one imu/<unix_ms>.txt file of "key: value" lines per capture and
// appending each capture time to timestep.txt. Stopping is by plain context
// cancellation via Close.
type Recorder struct {
	source   Source
	logger   golog.Logger
	clock    clock.Clock
	interval time.Duration

	sessionDir string
	imuDir     string
	tsLog      *os.File

	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
	closeOnce               sync.Once
}

// NewRecorder creates the session directory layout and returns a recorder
// ready to Start.
func NewRecorder(cfg RecorderConfig, source Source, logger golog.Logger) (*Recorder, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}

	sessionDir := filepath.Join(cfg.Dir, uuid.NewString())
	imuDir := filepath.Join(sessionDir, "imu")
	if err := os.MkdirAll(imuDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating session directory")
	}
	tsLog, err := os.Create(filepath.Join(sessionDir, "timestep.txt"))
	if err != nil {
		return nil, errors.Wrap(err, "creating timestep log")
	}

	logger.Infow("recording telemetry", "dir", sessionDir)
	return &Recorder{
		source:     source,
		logger:     logger,
		clock:      clock.New(),
		interval:   cfg.Interval,
		sessionDir: sessionDir,
		imuDir:     imuDir,
		tsLog:      tsLog,
	}, nil
}

// SessionDir returns the directory this recorder writes into.
func (r *Recorder) SessionDir() string {
	return r.sessionDir
}

// Start launches the capture loop. It must be called at most once.
func (r *Recorder) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer r.activeBackgroundWorkers.Done()
		r.captureLoop(ctx)
	})
}

func (r *Recorder) captureLoop(ctx context.Context) {
	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()
	for {
		r.captureOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Recorder) captureOnce(ctx context.Context) {
	readings, err := r.source.Readings(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Errorw("failed to read telemetry", "error", err)
		}
		return
	}
	now := r.clock.Now()

	keys := make([]string, 0, len(readings))
	for k := range readings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var body []byte
	for _, k := range keys {
		body = append(body, fmt.Sprintf("%s: %v\n", k, readings[k])...)
	}

	path := filepath.Join(r.imuDir, fmt.Sprintf("%d.txt", now.UnixMilli()))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		r.logger.Errorw("failed to write readings", "path", path, "error", err)
		return
	}
	if _, err := fmt.Fprintf(r.tsLog, "%.3f\n", float64(now.UnixNano())/float64(time.Second)); err != nil {
		r.logger.Errorw("failed to append timestep", "error", err)
	}
}

// Close stops the capture loop, waits for it to finish, and flushes the
// timestep log. Safe to call more than once.
func (r *Recorder) Close(ctx context.Context) error {
	var err error
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		r.activeBackgroundWorkers.Wait()
		err = r.tsLog.Close()
	})
	return err
}
