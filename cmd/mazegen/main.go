package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mazerunner/maze"
)

func main() {
	w := flag.Int("w", 21, "maze width (>= 5)")
	h := flag.Int("h", 21, "maze height (>= 5)")
	seed := flag.Int64("seed", 0, "random seed (0 = clock)")
	braid := flag.Float64("braid", maze.DefaultBraidProbability, "braiding probability [0.0 - 1.0]")
	solve := flag.Bool("solve", true, "overlay the shortest entry-to-exit path")
	flag.Parse()

	startT := time.Now()
	g, err := maze.Generate(*w, *h, maze.NewSource(*seed), maze.WithBraidProbability(*braid))
	if err != nil {
		fmt.Fprintf(os.Stderr, "mazegen: %v\n", err)
		os.Exit(1)
	}
	dur := time.Since(startT)

	var path []maze.Point
	if *solve {
		path = maze.Solve(g)
	}

	fmt.Printf("Done in %v\n", dur)
	fmt.Printf("Grid Dimensions: %dx%d, open cells: %d\n", g.Width(), g.Height(), g.OpenCount())
	if *solve {
		if path != nil {
			fmt.Printf("Solution Path Length: %d steps\n", len(path)-1)
		} else {
			fmt.Println("Status: Unsolvable")
		}
	}
	fmt.Print(draw(g, path))
}

func draw(g *maze.Grid, path []maze.Point) string {
	onPath := make(map[maze.Point]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	var sb strings.Builder
	for z := 0; z < g.Height(); z++ {
		for x := 0; x < g.Width(); x++ {
			p := maze.Point{X: x, Z: z}
			switch {
			case p == g.Entry():
				sb.WriteString("S")
			case p == g.Exit():
				sb.WriteString("E")
			case g.IsWall(x, z):
				sb.WriteString("█")
			case onPath[p]:
				sb.WriteString("•")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
