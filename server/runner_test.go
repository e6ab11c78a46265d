package server

import (
	"encoding/json"
	"sync"
	"testing"

	"mazerunner/game"
)

type captureSink struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (s *captureSink) Enqueue(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, b)
}

func (s *captureSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *captureSink) last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func testGameConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = 11, 11
	cfg.Seed = 1234
	return cfg
}

func newTestRunner(t *testing.T, codec Codec) (*SessionRunner, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	r, err := NewSessionRunner("s-test", testGameConfig(), codec, sink, 60)
	if err != nil {
		t.Fatal(err)
	}
	return r, sink
}

func decodeState(t *testing.T, codec Codec, b []byte) StateMessage {
	t.Helper()
	var msg StateMessage
	if err := codec.Unmarshal(b, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgState {
		t.Fatalf("expected state message, got %q", msg.Type)
	}
	return msg
}

func TestRunnerSendsMaze(t *testing.T) {
	r, sink := newTestRunner(t, JSON)
	r.SendMaze()

	var msg MazeMessage
	if err := json.Unmarshal(sink.last(), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgMaze || msg.Session != "s-test" || msg.Round != 1 {
		t.Errorf("unexpected header %+v", msg)
	}
	if msg.Width != 11 || msg.Height != 11 || len(msg.Rows) != 11 {
		t.Errorf("unexpected size %dx%d rows=%d", msg.Width, msg.Height, len(msg.Rows))
	}
	if msg.Entry != (GridPoint{1, 1}) || msg.Exit != (GridPoint{9, 9}) {
		t.Errorf("entry %v exit %v", msg.Entry, msg.Exit)
	}
	if msg.ExitCenter != [2]float64{9.5, 9.5} {
		t.Errorf("exit center %v", msg.ExitCenter)
	}
	rows := r.Session().Grid().Rows()
	for i := range rows {
		if rows[i] != msg.Rows[i] {
			t.Fatalf("row %d mismatch", i)
		}
	}
}

func TestRunnerAppliesHeldInput(t *testing.T) {
	r, sink := newTestRunner(t, JSON)
	r.OnInput(ClientMessage{Type: MsgInput, Seq: 1, Keys: game.KeyState{Forward: true}})
	r.Step()

	msg := decodeState(t, JSON, sink.last())
	if msg.Tick != 1 || msg.Ack != 1 {
		t.Errorf("tick %d ack %d", msg.Tick, msg.Ack)
	}
	// Velocity rather than position: the maze may wall off the first step
	if msg.Player.VZ <= 0 {
		t.Errorf("forward input produced no thrust: %+v", msg.Player)
	}
	if msg.Camera.LookAt.X() != msg.Player.X {
		t.Errorf("camera not tracking player")
	}

	// No new message: the held state keeps pushing
	vz := msg.Player.VZ
	r.Step()
	msg = decodeState(t, JSON, sink.last())
	if msg.Player.VZ <= vz {
		t.Errorf("held input not re-applied: %v <= %v", msg.Player.VZ, vz)
	}
	if got := r.Metrics().Snapshot()["inputs_accepted"]; got != int64(1) {
		t.Errorf("inputs_accepted %v", got)
	}
}

func TestRunnerIgnoresOldSeq(t *testing.T) {
	r, _ := newTestRunner(t, JSON)
	r.OnInput(ClientMessage{Type: MsgInput, Seq: 5, Keys: game.KeyState{Left: true}})
	r.OnInput(ClientMessage{Type: MsgInput, Seq: 4, Keys: game.KeyState{Right: true}})
	r.Step()

	if r.Session().Player().Angle <= 0 {
		t.Errorf("stale input overrode newer one, angle %v", r.Session().Player().Angle)
	}
	if got := r.Metrics().Snapshot()["old_seq_ignored"]; got != int64(1) {
		t.Errorf("old_seq_ignored %v", got)
	}
}

func TestRunnerReset(t *testing.T) {
	r, sink := newTestRunner(t, JSON)
	first := r.Session().Grid()

	r.OnInput(ClientMessage{Type: MsgInput, Keys: game.KeyState{Forward: true}})
	r.Step()
	r.OnInput(ClientMessage{Type: MsgReset})
	r.ProcessInputs()

	if r.Round() != 2 {
		t.Fatalf("round %d, want 2", r.Round())
	}
	if r.Session().Grid() == first {
		t.Error("reset kept the old grid")
	}
	p := r.Session().Player()
	if p.X != 1.5 || p.Z != 1.5 {
		t.Errorf("player not back at entry: %+v", p)
	}

	var msg MazeMessage
	if err := json.Unmarshal(sink.last(), &msg); err != nil || msg.Type != MsgMaze || msg.Round != 2 {
		t.Fatalf("expected round 2 maze message, got %+v (%v)", msg, err)
	}

	// Held input is cleared with the new round
	r.Step()
	if r.Session().Player().Speed() != 0 {
		t.Error("input carried over into the new round")
	}
}

func TestRunnerResetIsReproducibleWithSeed(t *testing.T) {
	a, _ := newTestRunner(t, JSON)
	b, _ := newTestRunner(t, JSON)
	a.Reset()
	b.Reset()
	if !a.Session().Grid().Equal(b.Session().Grid()) {
		t.Error("same seed and round produced different mazes")
	}
}

func TestRunnerDropsWhenQueueFull(t *testing.T) {
	r, _ := newTestRunner(t, JSON)
	for i := 0; i < cap(r.inputChan)+10; i++ {
		r.OnInput(ClientMessage{Type: MsgInput})
	}
	if got := r.Metrics().Snapshot()["chan_full_discarded"]; got != int64(10) {
		t.Errorf("chan_full_discarded %v, want 10", got)
	}
}

func TestRunnerReportsEscapeOnce(t *testing.T) {
	r, sink := newTestRunner(t, MsgPack)
	// A win distance covering the whole maze escapes on the first tick
	cfg := r.cfg
	cfg.WinThreshold = 100
	s, err := game.NewSessionWithGrid(cfg, r.Session().Grid())
	if err != nil {
		t.Fatal(err)
	}
	r.session = s

	r.Step()
	msg := decodeState(t, MsgPack, sink.last())
	if msg.Event != "escaped" || !msg.Escaped {
		t.Errorf("expected escaped event, got %+v", msg)
	}
	r.Step()
	msg = decodeState(t, MsgPack, sink.last())
	if msg.Event != "" || !msg.Escaped {
		t.Errorf("expected no repeat event, got %+v", msg)
	}
	if got := r.Metrics().Snapshot()["escapes"]; got != int64(1) {
		t.Errorf("escapes %v", got)
	}
}

func TestRunnerTickerClosesSinkOnStop(t *testing.T) {
	r, sink := newTestRunner(t, JSON)
	r.StartTicker()
	r.Stop()
	r.Stop()
	<-r.Done()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if !sink.closed {
		t.Error("sink not closed")
	}
	if len(sink.frames) == 0 {
		t.Fatal("no frames sent")
	}
	var msg MazeMessage
	if err := json.Unmarshal(sink.frames[0], &msg); err != nil || msg.Type != MsgMaze {
		t.Errorf("first frame is not the maze: %s", sink.frames[0])
	}
}
