package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"

	"mazerunner/maze"
)

// Config holds every tunable of a session. Zero values are not usable; start from DefaultConfig.
type Config struct {
	// Maze size in cells, both >= maze.MinSize
	Width  int `json:"width" env:"WIDTH"`
	Height int `json:"height" env:"HEIGHT"`
	// Seed for the maze source; 0 seeds from the clock
	Seed int64 `json:"seed" env:"SEED"`

	Speed               float64 `json:"speed" env:"SPEED"`                             // thrust per tick at full forward
	TurnSpeed           float64 `json:"turnSpeed" env:"TURN_SPEED"`                    // radians per tick at full turn
	StickTurnMultiplier float64 `json:"stickTurnMultiplier" env:"STICK_TURN_MULTIPLIER"` // analog turn sensitivity relative to keys
	Damping             float64 `json:"damping" env:"DAMPING"`                         // velocity retained per tick
	PlayerRadius        float64 `json:"playerRadius" env:"PLAYER_RADIUS"`
	BraidProbability    float64 `json:"braidProbability" env:"BRAID_PROBABILITY"`
	WinThreshold        float64 `json:"winThreshold" env:"WIN_THRESHOLD"` // distance to exit center that ends the run

	CameraOffset       mgl64.Vec3 `json:"cameraOffset"`
	CameraTargetHeight float64    `json:"cameraTargetHeight" env:"CAMERA_TARGET_HEIGHT"`
}

// Default tuning
const (
	DefaultSize                = 21
	DefaultSpeed               = 0.15
	DefaultTurnSpeed           = 0.08
	DefaultStickTurnMultiplier = 1.5
	DefaultDamping             = 0.9
	DefaultPlayerRadius        = 0.25
	DefaultWinThreshold        = 0.5
	DefaultCameraTargetHeight  = 1.0
)

// DefaultCameraOffset places the camera above and behind the player for heading 0
var DefaultCameraOffset = mgl64.Vec3{0, 3, -4}

func DefaultConfig() Config {
	return Config{
		Width:               DefaultSize,
		Height:              DefaultSize,
		Speed:               DefaultSpeed,
		TurnSpeed:           DefaultTurnSpeed,
		StickTurnMultiplier: DefaultStickTurnMultiplier,
		Damping:             DefaultDamping,
		PlayerRadius:        DefaultPlayerRadius,
		BraidProbability:    maze.DefaultBraidProbability,
		WinThreshold:        DefaultWinThreshold,
		CameraOffset:        DefaultCameraOffset,
		CameraTargetHeight:  DefaultCameraTargetHeight,
	}
}

// ConfigError describes one invalid configuration field
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Validate reports every invalid field, combined into one error
func (c Config) Validate() error {
	var err error
	if c.Width < maze.MinSize {
		err = multierr.Append(err, &ConfigError{"width", c.Width, fmt.Sprintf("must be >= %d", maze.MinSize)})
	}
	if c.Height < maze.MinSize {
		err = multierr.Append(err, &ConfigError{"height", c.Height, fmt.Sprintf("must be >= %d", maze.MinSize)})
	}
	if !finite(c.Speed) || !(c.Speed > 0) {
		err = multierr.Append(err, &ConfigError{"speed", c.Speed, "must be positive and finite"})
	}
	if !finite(c.TurnSpeed) || !(c.TurnSpeed > 0) {
		err = multierr.Append(err, &ConfigError{"turnSpeed", c.TurnSpeed, "must be positive and finite"})
	}
	if !finite(c.StickTurnMultiplier) || !(c.StickTurnMultiplier >= 0) {
		err = multierr.Append(err, &ConfigError{"stickTurnMultiplier", c.StickTurnMultiplier, "must be finite and not negative"})
	}
	if !(c.Damping >= 0 && c.Damping <= 1) {
		err = multierr.Append(err, &ConfigError{"damping", c.Damping, "must be within [0, 1]"})
	}
	// The collision probe only looks one cell away
	if !(c.PlayerRadius > 0 && c.PlayerRadius < 0.5) {
		err = multierr.Append(err, &ConfigError{"playerRadius", c.PlayerRadius, "must be within (0, 0.5)"})
	}
	if !(c.BraidProbability >= 0 && c.BraidProbability <= 1) {
		err = multierr.Append(err, &ConfigError{"braidProbability", c.BraidProbability, "must be within [0, 1]"})
	}
	if !finite(c.WinThreshold) || !(c.WinThreshold > 0) {
		err = multierr.Append(err, &ConfigError{"winThreshold", c.WinThreshold, "must be positive and finite"})
	}
	if !finite(c.CameraOffset.X()) || !finite(c.CameraOffset.Y()) || !finite(c.CameraOffset.Z()) {
		err = multierr.Append(err, &ConfigError{"cameraOffset", c.CameraOffset, "must be finite"})
	}
	if !finite(c.CameraTargetHeight) {
		err = multierr.Append(err, &ConfigError{"cameraTargetHeight", c.CameraTargetHeight, "must be finite"})
	}
	return err
}
