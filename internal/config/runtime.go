package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds process-wide settings that come from the environment.
// Command-line flags override these when set explicitly.
type Runtime struct {
	FPS      int    `env:"BATTLESIM_FPS" envDefault:"10"`
	Seed     int64  `env:"BATTLESIM_SEED"` // 0 = time-based
	DBPath   string `env:"BATTLESIM_DB" envDefault:"~/.battlesim/battles.db"`
	LogLevel string `env:"BATTLESIM_LOG_LEVEL" envDefault:"info"`
}

// LoadRuntime reads runtime settings from the environment.
func LoadRuntime() (Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return Runtime{}, fmt.Errorf("config: parse env: %w", err)
	}
	if rt.FPS < 1 {
		return Runtime{}, fmt.Errorf("config: BATTLESIM_FPS must be positive, got %d", rt.FPS)
	}
	return rt, nil
}
