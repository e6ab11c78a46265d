package maze

import (
	"fmt"
	"strings"
)

// Cell is the state of one grid square
type Cell uint8

const (
	Wall Cell = iota
	Open
)

// MinSize is the smallest width/height that leaves room for entry, interior and exit
const MinSize = 5

type Point struct {
	X, Z int
}

// Grid is a width x height array of cells. Generated grids are never mutated after Generate returns.
type Grid struct {
	width, height int
	cells         []Cell // z-major: index = z*width + x
}

func newGrid(width, height int) *Grid {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Wall
	}
	return &Grid{width: width, height: height, cells: cells}
}

// Parse builds a grid from text rows, one row per z, '#' for walls and anything else open.
// Rows must be non-empty and of equal length. Intended for fixtures and tooling.
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("parse grid: empty input")
	}
	g := newGrid(len(rows[0]), len(rows))
	for z, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("parse grid: row %d has length %d, want %d", z, len(row), g.width)
		}
		for x := 0; x < len(row); x++ {
			if row[x] != '#' {
				g.set(x, z, Open)
			}
		}
	}
	return g, nil
}

// MustParse is Parse that panics on malformed input
func MustParse(rows ...string) *Grid {
	g, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, z) addresses a cell of the grid
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && x < g.width && z >= 0 && z < g.height
}

// At returns the cell at (x, z). Out-of-bounds cells read as Wall.
func (g *Grid) At(x, z int) Cell {
	if !g.InBounds(x, z) {
		return Wall
	}
	return g.cells[z*g.width+x]
}

func (g *Grid) IsWall(x, z int) bool { return g.At(x, z) == Wall }

// Entry is the fixed start cell
func (g *Grid) Entry() Point { return Point{1, 1} }

// Exit is the fixed goal cell
func (g *Grid) Exit() Point { return Point{g.width - 2, g.height - 2} }

// Rows returns a copy of the grid as text rows ('#' wall, '.' open), z-major
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for z := 0; z < g.height; z++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			if g.At(x, z) == Wall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[z] = sb.String()
	}
	return rows
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// OpenCount returns the number of open cells
func (g *Grid) OpenCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Open {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have identical dimensions and cells
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (g *Grid) clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

func (g *Grid) set(x, z int, c Cell) {
	g.cells[z*g.width+x] = c
}

func (g *Grid) interior(x, z int) bool {
	return x > 0 && x < g.width-1 && z > 0 && z < g.height-1
}

var orthogonal = []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Reachable flood-fills open cells from the entry and returns a visited mask indexed like the grid
func (g *Grid) Reachable() []bool {
	seen := make([]bool, len(g.cells))
	start := g.Entry()
	if g.At(start.X, start.Z) == Wall {
		return seen
	}
	queue := []Point{start}
	seen[start.Z*g.width+start.X] = true
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, d := range orthogonal {
			nx, nz := curr.X+d.X, curr.Z+d.Z
			if g.At(nx, nz) == Wall {
				continue
			}
			i := nz*g.width + nx
			if !seen[i] {
				seen[i] = true
				queue = append(queue, Point{nx, nz})
			}
		}
	}
	return seen
}

// Connected reports whether every open cell is reachable from the entry
func (g *Grid) Connected() bool {
	seen := g.Reachable()
	for i, c := range g.cells {
		if c == Open && !seen[i] {
			return false
		}
	}
	return true
}
