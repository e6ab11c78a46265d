package game

import "math"

// KeyState is the discrete input: four independent held flags
type KeyState struct {
	Forward bool `json:"forward" msgpack:"forward"`
	Back    bool `json:"back" msgpack:"back"`
	Left    bool `json:"left" msgpack:"left"`
	Right   bool `json:"right" msgpack:"right"`
}

// StickState is the continuous input. X grows to the right and Y grows downward (screen space).
// Reach is the displacement that counts as full deflection; Reach <= 0 means X, Y are already normalized.
type StickState struct {
	Active bool    `json:"active" msgpack:"active"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Reach  float64 `json:"reach,omitempty" msgpack:"reach,omitempty"`
}

// ControlVector is the device-agnostic movement intent for one tick.
// Turn > 0 rotates counter-clockwise (heading angle increases).
type ControlVector struct {
	Forward float64 `json:"forward" msgpack:"forward"`
	Turn    float64 `json:"turn" msgpack:"turn"`
}

// Normalize merges both input sources additively. The sum is not re-clamped: keys contribute at most 1
// per axis and the stick at most 1 forward and StickTurnMultiplier turn.
func Normalize(keys KeyState, stick StickState, cfg Config) ControlVector {
	var cv ControlVector

	if keys.Forward {
		cv.Forward++
	}
	if keys.Back {
		cv.Forward--
	}
	if keys.Left {
		cv.Turn++
	}
	if keys.Right {
		cv.Turn--
	}

	if stick.Active {
		x, y := clampStick(stick)
		// Pushing down means backward; pushing right turns clockwise
		cv.Forward += -y
		cv.Turn += -x * cfg.StickTurnMultiplier
	}
	return cv
}

// clampStick clamps radially so direction is preserved, then scales to unit reach.
// A non-finite reading counts as a centered stick.
func clampStick(s StickState) (float64, float64) {
	if !finite(s.X) || !finite(s.Y) || !finite(s.Reach) {
		return 0, 0
	}
	reach := s.Reach
	if reach <= 0 {
		reach = 1
	}
	x, y := s.X, s.Y
	if d := math.Hypot(x, y); d > reach {
		x *= reach / d
		y *= reach / d
	}
	return x / reach, y / reach
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
