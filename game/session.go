package game

import (
	"fmt"
	"math"

	"mazerunner/maze"
)

// Event is a terminal session signal
type Event uint8

const (
	EventNone Event = iota
	EventEscaped
)

func (e Event) String() string {
	switch e {
	case EventEscaped:
		return "escaped"
	default:
		return "none"
	}
}

// Session owns the grid and player for one run. It is not safe for concurrent use; the host drives
// Tick from a single goroutine and discards the session to start over.
type Session struct {
	cfg    Config
	grid   *maze.Grid
	player PlayerState
	exitX  float64
	exitZ  float64

	ticks   int64
	escaped bool
	last    Event
}

// NewSession validates cfg and generates a fresh maze from src
func NewSession(cfg Config, src maze.Source) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := maze.Generate(cfg.Width, cfg.Height, src, maze.WithBraidProbability(cfg.BraidProbability))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return newSession(cfg, grid), nil
}

// NewSessionWithGrid runs a session on an existing grid. The grid's own dimensions win over
// cfg.Width/Height.
func NewSessionWithGrid(cfg Config, grid *maze.Grid) (*Session, error) {
	if grid == nil {
		return nil, fmt.Errorf("new session: nil grid")
	}
	cfg.Width, cfg.Height = grid.Width(), grid.Height()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newSession(cfg, grid), nil
}

func newSession(cfg Config, grid *maze.Grid) *Session {
	entry, exit := grid.Entry(), grid.Exit()
	return &Session{
		cfg:    cfg,
		grid:   grid,
		player: PlayerState{X: float64(entry.X) + 0.5, Z: float64(entry.Z) + 0.5},
		exitX:  float64(exit.X) + 0.5,
		exitZ:  float64(exit.Z) + 0.5,
	}
}

// Tick advances one frame and returns EventEscaped on the tick the player reaches the exit.
// Once escaped, Tick leaves the player untouched and returns EventNone.
func (s *Session) Tick(keys KeyState, stick StickState) Event {
	if s.escaped {
		return EventNone
	}
	s.ticks++
	cv := Normalize(keys, stick, s.cfg)
	s.player = Step(s.grid, s.cfg, s.player, cv)

	if s.DistanceToExit() < s.cfg.WinThreshold {
		s.escaped = true
		s.last = EventEscaped
		return EventEscaped
	}
	return EventNone
}

// DistanceToExit is the planar distance from the player to the exit cell center
func (s *Session) DistanceToExit() float64 {
	return math.Hypot(s.player.X-s.exitX, s.player.Z-s.exitZ)
}

// ExitCenter returns the world coordinates of the exit cell center
func (s *Session) ExitCenter() (float64, float64) { return s.exitX, s.exitZ }

func (s *Session) Player() PlayerState { return s.player }
func (s *Session) Grid() *maze.Grid    { return s.grid }
func (s *Session) Config() Config      { return s.cfg }
func (s *Session) Camera() View        { return CameraView(s.player, s.cfg) }

// LastEvent is the most recent event emitted, EventNone until the player escapes
func (s *Session) LastEvent() Event { return s.last }
func (s *Session) Escaped() bool    { return s.escaped }
func (s *Session) Ticks() int64     { return s.ticks }
