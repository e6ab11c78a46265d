package game

import (
	"math"

	"mazerunner/maze"
)

// CollisionQuery probes the grid with a circle centered at (X, Z)
type CollisionQuery struct {
	X, Z   float64
	Radius float64
}

// Collides reports whether the query circle overlaps a wall. Anything outside the grid is a wall.
// Only the containing cell and its eight neighbors are considered, so Radius must stay below half a cell.
func Collides(g *maze.Grid, q CollisionQuery) bool {
	if math.IsNaN(q.X) || math.IsNaN(q.Z) {
		return true
	}
	fx, fz := math.Floor(q.X), math.Floor(q.Z)
	if fx < 0 || fz < 0 || fx >= float64(g.Width()) || fz >= float64(g.Height()) {
		return true
	}
	cx, cz := int(fx), int(fz)
	if g.IsWall(cx, cz) {
		return true
	}

	r := q.Radius
	dw := q.X - fx     // distance to west edge
	de := fx + 1 - q.X // east
	dn := q.Z - fz     // north (low z)
	ds := fz + 1 - q.Z // south

	nearW, nearE := dw < r, de < r
	nearN, nearS := dn < r, ds < r

	// Neighbors past the grid edge are not walls here; the containing cell is in bounds already
	wall := func(x, z int) bool {
		return g.InBounds(x, z) && g.IsWall(x, z)
	}

	switch {
	case nearW && wall(cx-1, cz),
		nearE && wall(cx+1, cz),
		nearN && wall(cx, cz-1),
		nearS && wall(cx, cz+1):
		return true
	}

	// Corners: the diagonal cell only touches the circle through the shared corner point
	corner := func(dx, dz float64) bool { return dx*dx+dz*dz < r*r }
	switch {
	case nearW && nearN && wall(cx-1, cz-1) && corner(dw, dn),
		nearE && nearN && wall(cx+1, cz-1) && corner(de, dn),
		nearW && nearS && wall(cx-1, cz+1) && corner(dw, ds),
		nearE && nearS && wall(cx+1, cz+1) && corner(de, ds):
		return true
	}
	return false
}
