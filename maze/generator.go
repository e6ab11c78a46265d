package maze

import (
	"fmt"
)

// DefaultBraidProbability is the chance an interior wall is knocked out by the braiding pass
const DefaultBraidProbability = 0.4

// DimensionError reports a maze size too small to hold entry, interior and exit
type DimensionError struct {
	Width, Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("maze dimensions %dx%d below minimum %dx%d", e.Width, e.Height, MinSize, MinSize)
}

// Stage identifies a generation checkpoint reported to observers
type Stage uint8

const (
	StageCarved Stage = iota
	StageBraided
)

func (s Stage) String() string {
	switch s {
	case StageCarved:
		return "carved"
	case StageBraided:
		return "braided"
	default:
		return "unknown"
	}
}

type options struct {
	braid    float64
	observer func(Stage, *Grid)
}

type Option func(*options)

// WithBraidProbability overrides the braiding probability (clamped to [0, 1])
func WithBraidProbability(p float64) Option {
	return func(o *options) {
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		o.braid = p
	}
}

// WithStages registers an observer that receives a snapshot after each stage
func WithStages(fn func(Stage, *Grid)) Option {
	return func(o *options) { o.observer = fn }
}

// Generate carves a braided maze. Entry is (1,1), exit is (width-2, height-2), and every open cell
// is 4-connected to the entry.
func Generate(width, height int, src Source, opts ...Option) (*Grid, error) {
	if width < MinSize || height < MinSize {
		return nil, &DimensionError{Width: width, Height: height}
	}
	if src == nil {
		return nil, fmt.Errorf("generate maze: nil random source")
	}

	o := options{braid: DefaultBraidProbability}
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Initialize grid (filled with walls)
	g := newGrid(width, height)

	// 2. Core generation (recursive backtracker, explicit stack)
	if err := recursiveBacktracker(g, g.Entry(), src); err != nil {
		return nil, fmt.Errorf("generate maze: carve: %w", err)
	}

	// 3. Exit on an even coordinate is not a backtracker node
	linkExit(g)

	if o.observer != nil {
		o.observer(StageCarved, g.clone())
	}

	// 4. Braiding: open-only, then bridge any island it produced
	if err := braid(g, o.braid, src); err != nil {
		return nil, fmt.Errorf("generate maze: braid: %w", err)
	}
	if err := reconnect(g, src); err != nil {
		return nil, fmt.Errorf("generate maze: reconnect: %w", err)
	}

	if o.observer != nil {
		o.observer(StageBraided, g.clone())
	}
	return g, nil
}

// --- Core Algorithms ---

var jumps = [4]Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

func recursiveBacktracker(g *Grid, start Point, src Source) error {
	stack := []Point{start}
	g.set(start.X, start.Z, Open)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]

		dirs := jumps
		if err := shuffle(dirs[:], src); err != nil {
			return err
		}

		advanced := false
		for _, d := range dirs {
			nx, nz := curr.X+d.X, curr.Z+d.Z
			// Leave a 1 cell border for walls
			if !g.interior(nx, nz) || g.At(nx, nz) == Open {
				continue
			}
			g.set(curr.X+d.X/2, curr.Z+d.Z/2, Open)
			g.set(nx, nz, Open)
			stack = append(stack, Point{nx, nz})
			advanced = true
			break
		}

		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// shuffle is an in-place Fisher-Yates driven by src
func shuffle(dirs []Point, src Source) error {
	for i := len(dirs) - 1; i > 0; i-- {
		j, err := src.Intn(i + 1)
		if err != nil {
			return err
		}
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return nil
}

// linkExit opens the exit and the connector cells toward the nearest carved node (odd, odd)
func linkExit(g *Grid) {
	exit := g.Exit()
	nodeX, nodeZ := exit.X, exit.Z
	if nodeX%2 == 0 {
		nodeX--
	}
	if nodeZ%2 == 0 {
		nodeZ--
	}
	g.set(exit.X, exit.Z, Open)
	g.set(nodeX, exit.Z, Open)
	g.set(nodeX, nodeZ, Open)
}

func braid(g *Grid, p float64, src Source) error {
	if p <= 0 {
		return nil
	}
	for x := 1; x < g.width-1; x++ {
		for z := 1; z < g.height-1; z++ {
			if g.At(x, z) == Open {
				continue
			}
			u, err := src.Float64()
			if err != nil {
				return err
			}
			if u < p {
				g.set(x, z, Open)
			}
		}
	}
	return nil
}

// reconnect bridges open cells the braiding pass left unreachable by opening one interior wall
// neighbor that touches the reachable region. Cells are only ever opened.
func reconnect(g *Grid, src Source) error {
	for {
		seen := g.Reachable()
		bridged := false

		for z := 1; z < g.height-1 && !bridged; z++ {
			for x := 1; x < g.width-1; x++ {
				if g.At(x, z) == Wall || seen[z*g.width+x] {
					continue
				}
				candidates := bridgeCandidates(g, seen, x, z)
				if len(candidates) == 0 {
					continue
				}
				i, err := src.Intn(len(candidates))
				if err != nil {
					return err
				}
				c := candidates[i]
				g.set(c.X, c.Z, Open)
				bridged = true
				break
			}
		}

		if !bridged {
			if !g.Connected() {
				return fmt.Errorf("unreachable open cells remain")
			}
			return nil
		}
	}
}

func bridgeCandidates(g *Grid, seen []bool, x, z int) []Point {
	candidates := make([]Point, 0, 4)
	for _, d := range orthogonal {
		wx, wz := x+d.X, z+d.Z
		if !g.interior(wx, wz) || g.At(wx, wz) == Open {
			continue
		}
		for _, d2 := range orthogonal {
			nx, nz := wx+d2.X, wz+d2.Z
			if g.InBounds(nx, nz) && seen[nz*g.width+nx] {
				candidates = append(candidates, Point{wx, wz})
				break
			}
		}
	}
	return candidates
}

// --- Diagnostics ---

// Solve returns the shortest entry-to-exit path (inclusive), or nil if the exit is unreachable
func Solve(g *Grid) []Point {
	start, end := g.Entry(), g.Exit()
	if g.IsWall(start.X, start.Z) || g.IsWall(end.X, end.Z) {
		return nil
	}

	queue := []Point{start}
	cameFrom := make(map[Point]Point)
	visited := map[Point]bool{start: true}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == end {
			path := []Point{}
			for curr != start {
				path = append(path, curr)
				curr = cameFrom[curr]
			}
			path = append(path, start)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range orthogonal {
			next := Point{curr.X + d.X, curr.Z + d.Z}
			if g.IsWall(next.X, next.Z) || visited[next] {
				continue
			}
			visited[next] = true
			cameFrom[next] = curr
			queue = append(queue, next)
		}
	}
	return nil
}
