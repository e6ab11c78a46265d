package server

import (
	"errors"
	"testing"

	"github.com/caarlos0/env/v11"

	"mazerunner/game"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(env.Options{Prefix: EnvPrefix, Environment: map[string]string{}})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.TickRate != 60 || cfg.Codec != "json" {
		t.Errorf("unexpected server defaults %+v", cfg)
	}
	if cfg.Game != game.DefaultConfig() {
		t.Errorf("game defaults changed: %+v", cfg.Game)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(env.Options{Prefix: EnvPrefix, Environment: map[string]string{
		"MAZE_ADDR":                   ":9000",
		"MAZE_TICK_RATE":              "30",
		"MAZE_CODEC":                  "msgpack",
		"MAZE_GAME_WIDTH":             "31",
		"MAZE_GAME_SEED":              "77",
		"MAZE_GAME_BRAID_PROBABILITY": "0.1",
	}})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.TickRate != 30 || cfg.Codec != "msgpack" {
		t.Errorf("server overrides not applied: %+v", cfg)
	}
	if cfg.Game.Width != 31 || cfg.Game.Seed != 77 || cfg.Game.BraidProbability != 0.1 {
		t.Errorf("game overrides not applied: %+v", cfg.Game)
	}
	// Untouched fields keep their defaults
	if cfg.Game.Height != game.DefaultSize || cfg.Game.Damping != game.DefaultDamping {
		t.Errorf("defaults lost: %+v", cfg.Game)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"codec":       {"MAZE_CODEC": "xml"},
		"tick rate":   {"MAZE_TICK_RATE": "0"},
		"width":       {"MAZE_GAME_WIDTH": "3"},
		"not a num":   {"MAZE_GAME_HEIGHT": "tall"},
		"nan damping": {"MAZE_GAME_DAMPING": "NaN"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(env.Options{Prefix: EnvPrefix, Environment: environ}); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := loadConfig(env.Options{Prefix: EnvPrefix, Environment: map[string]string{"MAZE_GAME_WIDTH": "3"}})
	var ce *game.ConfigError
	if !errors.As(err, &ce) || ce.Field != "width" {
		t.Errorf("expected width ConfigError, got %v", err)
	}
}

func TestCodecByName(t *testing.T) {
	for name, want := range map[string]string{"": "json", "JSON": "json", "msgpack": "msgpack"} {
		c, err := CodecByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if c.Name() != want {
			t.Errorf("%q resolved to %s", name, c.Name())
		}
	}
	if _, err := CodecByName("protobuf"); err == nil {
		t.Error("expected error for unknown codec")
	}
}

func TestCodecsRoundTripState(t *testing.T) {
	in := StateMessage{
		Type:   MsgState,
		Tick:   42,
		Ack:    7,
		Player: game.PlayerState{X: 1.25, Z: 3.5, Angle: 0.4, VX: 0.01, VZ: -0.02},
		Camera: game.CameraView(game.PlayerState{X: 1.25, Z: 3.5, Angle: 0.4}, game.DefaultConfig()),
		Event:  "escaped",
	}
	for _, c := range []Codec{JSON, MsgPack} {
		b, err := c.Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		var out StateMessage
		if err := c.Unmarshal(b, &out); err != nil {
			t.Fatal(err)
		}
		if out != in {
			t.Errorf("%s: round trip changed message\n in: %+v\nout: %+v", c.Name(), in, out)
		}
	}
}

func TestNewSessionManagerValidatesConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"tick rate too high": {TickRate: 2_000_000_000, Codec: "json", Game: game.DefaultConfig()},
		"tick rate zero":     {TickRate: 0, Codec: "json", Game: game.DefaultConfig()},
		"codec":              {TickRate: 60, Codec: "xml", Game: game.DefaultConfig()},
	} {
		t.Run(name, func(t *testing.T) {
			if m, err := NewSessionManager(cfg); err == nil || m != nil {
				t.Errorf("expected rejection, got manager=%v err=%v", m, err)
			}
		})
	}
}
