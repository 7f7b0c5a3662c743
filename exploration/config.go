package exploration

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Defaults applied by NewExplorer for zero-valued config fields.
const (
	DefaultResolution      = 0.5
	DefaultInitialGridSize = 50
)

// Config describes how to configure an Explorer.
type Config struct {
	// Resolution is the meters represented by one grid step.
	Resolution float64 `json:"resolution"`
	// InitialGridSize is the starting dimension of the square grid.
	InitialGridSize int `json:"initial_grid_size"`
	// HeadingFromPose disables the default assumption that a commanded
	// rotation is achieved exactly. When set, the tracked heading is only
	// ever taken from pose samples, so an unacknowledged rotation leaves
	// the previous heading in place until the next sample arrives. This
	// trades the default's possible drift accumulation for a one-sample
	// lag after every rotation.
	HeadingFromPose bool `json:"heading_from_pose"`
	// Strategy picks the next goal from the frontier; nil means
	// FirstFrontier.
	Strategy GoalStrategy `json:"-"`
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate(path string) error {
	if c.Resolution < 0 {
		return utils.NewConfigValidationError(path, errors.New("resolution cannot be negative"))
	}
	if c.InitialGridSize < 0 {
		return utils.NewConfigValidationError(path, errors.New("initial_grid_size cannot be negative"))
	}
	return nil
}
