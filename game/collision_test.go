package game

import (
	"math"
	"math/rand"
	"testing"

	"mazerunner/maze"
)

func TestCollidesOutOfBounds(t *testing.T) {
	g := maze.MustParse("...", "...", "...")
	points := [][2]float64{
		{-0.01, 1.5}, {1.5, -0.01}, {3.0, 1.5}, {1.5, 3.0}, {-5, -5}, {100, 1},
		{math.Inf(1), 1}, {1, math.Inf(-1)}, {math.NaN(), 1},
	}
	for _, p := range points {
		if !Collides(g, CollisionQuery{X: p[0], Z: p[1], Radius: 0.25}) {
			t.Errorf("(%v,%v) outside the grid should collide", p[0], p[1])
		}
	}
}

func TestCollidesOpenGridEdgesAreFree(t *testing.T) {
	g := maze.MustParse("...", "...", "...")
	// Near the outer edge but inside: out-of-grid neighbors are not walls
	for _, p := range [][2]float64{{0.1, 0.1}, {2.9, 2.9}, {1.5, 1.5}, {0, 0}} {
		if Collides(g, CollisionQuery{X: p[0], Z: p[1], Radius: 0.25}) {
			t.Errorf("(%v,%v) should be free", p[0], p[1])
		}
	}
}

func TestCollidesOrthogonalNeighbors(t *testing.T) {
	g := maze.MustParse(
		"...",
		".#.",
		"...",
	)
	cases := []struct {
		x, z float64
		want bool
	}{
		{0.8, 1.5, true},   // west of wall, 0.2 away
		{0.7, 1.5, false},  // 0.3 away
		{2.2, 1.5, true},   // east
		{1.5, 0.76, true},  // north
		{1.5, 2.3, false},  // south, 0.3 away
		{1.5, 1.5, true},   // inside
		{0.5, 0.5, false},  // diagonal cell, far from corner
		{0.85, 0.85, true}, // diagonal, 0.21 from corner
		{0.8, 0.8, false},  // diagonal, 0.283 from corner
	}
	for _, tc := range cases {
		got := Collides(g, CollisionQuery{X: tc.x, Z: tc.z, Radius: 0.25})
		if got != tc.want {
			t.Errorf("Collides(%v,%v) = %v, want %v", tc.x, tc.z, got, tc.want)
		}
	}
}

// Property: against a 3x3 grid with one wall, Collides agrees with the exact circle/box distance
func TestCollidesMatchesExactDistance(t *testing.T) {
	g := maze.MustParse(
		"...",
		"..#",
		"...",
	)
	const wallX, wallZ = 2.0, 1.0
	const r = 0.25
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20000; i++ {
		x, z := rng.Float64()*3, rng.Float64()*3
		dx := math.Max(0, math.Max(wallX-x, x-(wallX+1)))
		dz := math.Max(0, math.Max(wallZ-z, z-(wallZ+1)))
		inside := dx == 0 && dz == 0
		near := dx*dx+dz*dz < r*r

		got := Collides(g, CollisionQuery{X: x, Z: z, Radius: r})
		if (inside || near) && !got {
			t.Fatalf("false negative at (%v,%v): distance %v", x, z, math.Hypot(dx, dz))
		}
		if !inside && !near && got {
			t.Fatalf("false positive at (%v,%v): distance %v", x, z, math.Hypot(dx, dz))
		}
	}
}

func TestCollidesContainingWallAlways(t *testing.T) {
	g := maze.MustParse(
		"#.#",
		"...",
		"#.#",
	)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		x, z := rng.Float64(), rng.Float64()
		if !Collides(g, CollisionQuery{X: x, Z: z, Radius: 0.01}) {
			t.Fatalf("(%v,%v) lies in wall cell (0,0)", x, z)
		}
	}
}
