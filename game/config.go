package game

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/plus3/superbubble/grid"
)

// ErrInvalidConfig is wrapped by every error Config.Validate returns.
var ErrInvalidConfig = errors.New("invalid game config")

// Config holds the tunables of a session. Speeds are in play-space units per
// 60 Hz tick.
type Config struct {
	FallSpeed     int `toml:"fall_speed"`
	FastFallSpeed int `toml:"fast_fall_speed"`
	// LevelFallStep is added to FallSpeed for every level above the first.
	LevelFallStep int    `toml:"level_fall_step"`
	LevelScore    uint32 `toml:"level_score"`

	BounceHeight      int8    `toml:"bounce_height"`
	ChainLength       int     `toml:"chain_length"`
	DeathFrameSeconds float64 `toml:"death_frame_seconds"`

	// TargetFrameSeconds is the tick length fall speeds are expressed in.
	TargetFrameSeconds float64 `toml:"target_frame_seconds"`

	// Seed seeds spawn columns and colors. Zero picks a random seed.
	Seed uint64 `toml:"seed"`
}

// DefaultConfig returns the standard game tuning.
func DefaultConfig() Config {
	return Config{
		FallSpeed:          3,
		FastFallSpeed:      12,
		LevelFallStep:      1,
		LevelScore:         1000,
		BounceHeight:       3,
		ChainLength:        4,
		DeathFrameSeconds:  0.05,
		TargetFrameSeconds: 1.0 / 60.0,
	}
}

// Validate reports the first setting that would break the simulation.
func (c Config) Validate() error {
	switch {
	case c.FallSpeed < 1 || c.FallSpeed > grid.CellSize:
		return fmt.Errorf("%w: fall speed %d outside [1,%d]", ErrInvalidConfig, c.FallSpeed, grid.CellSize)
	case c.FastFallSpeed < c.FallSpeed || c.FastFallSpeed > grid.CellSize:
		return fmt.Errorf("%w: fast fall speed %d outside [%d,%d]", ErrInvalidConfig, c.FastFallSpeed, c.FallSpeed, grid.CellSize)
	case c.LevelFallStep < 0:
		return fmt.Errorf("%w: negative level fall step %d", ErrInvalidConfig, c.LevelFallStep)
	case c.LevelScore == 0:
		return fmt.Errorf("%w: level score must be positive", ErrInvalidConfig)
	case c.BounceHeight < 0:
		return fmt.Errorf("%w: negative bounce height %d", ErrInvalidConfig, c.BounceHeight)
	case c.ChainLength < 2:
		return fmt.Errorf("%w: chain length %d below 2", ErrInvalidConfig, c.ChainLength)
	case c.DeathFrameSeconds <= 0:
		return fmt.Errorf("%w: death frame seconds must be positive", ErrInvalidConfig)
	case c.TargetFrameSeconds <= 0:
		return fmt.Errorf("%w: target frame seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
