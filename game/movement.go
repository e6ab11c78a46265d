package game

import (
	"math"

	"mazerunner/maze"
)

// PlayerState is the continuous pose and velocity of the agent in grid units
type PlayerState struct {
	X     float64 `json:"x" msgpack:"x"`
	Z     float64 `json:"z" msgpack:"z"`
	Angle float64 `json:"angle" msgpack:"angle"` // radians; 0 faces +Z
	VX    float64 `json:"vx" msgpack:"vx"`
	VZ    float64 `json:"vz" msgpack:"vz"`
}

// Speed returns the velocity magnitude
func (p PlayerState) Speed() float64 { return math.Hypot(p.VX, p.VZ) }

// Step advances the player one tick: damping, heading-relative thrust, turning, then a sliding
// collision resolution against the grid.
func Step(g *maze.Grid, cfg Config, p PlayerState, cv ControlVector) PlayerState {
	p.VX *= cfg.Damping
	p.VZ *= cfg.Damping

	// Thrust uses the heading from before this tick's turn
	sin, cos := math.Sincos(p.Angle)
	p.VX += cfg.Speed * sin * cv.Forward
	p.VZ += cfg.Speed * cos * cv.Forward

	p.Angle += cfg.TurnSpeed * cv.Turn

	newX, newZ := p.X+p.VX, p.Z+p.VZ
	p.X, p.Z = resolve(g, cfg.PlayerRadius, p.X, p.Z, newX, newZ)
	return p
}

// resolve accepts the full move when free, otherwise each axis on its own: X first against the
// current Z, then Z against whatever X ended up as. Blocked axes keep their old coordinate.
func resolve(g *maze.Grid, radius, x, z, newX, newZ float64) (float64, float64) {
	if !Collides(g, CollisionQuery{X: newX, Z: newZ, Radius: radius}) {
		return newX, newZ
	}
	if !Collides(g, CollisionQuery{X: newX, Z: z, Radius: radius}) {
		x = newX
	}
	if !Collides(g, CollisionQuery{X: x, Z: newZ, Radius: radius}) {
		z = newZ
	}
	return x, z
}
