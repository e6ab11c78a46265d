package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"mazerunner/game"
)

// EnvPrefix 所有环境变量的统一前缀，例如 MAZE_ADDR、MAZE_GAME_WIDTH
const EnvPrefix = "MAZE_"

// Config 服务端配置：监听地址、日志、Tick 频率、默认编码，以及新会话使用的游戏参数
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	LogFile   string `env:"LOG_FILE" envDefault:"app.log"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"debug"`
	TickRate  int    `env:"TICK_RATE" envDefault:"60"`
	Codec     string `env:"CODEC" envDefault:"json"`
	StaticDir string `env:"STATIC_DIR" envDefault:"web"`

	Game game.Config `envPrefix:"GAME_"`
}

// LoadConfig 以 game.DefaultConfig 为基础叠加环境变量
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{Prefix: EnvPrefix})
}

func loadConfig(opts env.Options) (Config, error) {
	cfg := Config{Game: game.DefaultConfig()}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickRate <= 0 || c.TickRate > 1000 {
		return fmt.Errorf("invalid config: tick rate %d must be within (0, 1000]", c.TickRate)
	}
	if _, err := CodecByName(c.Codec); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}
	return nil
}
