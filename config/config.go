// Package config holds the command-line configuration of roomloop.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/plus3/roomloop/engine"
	"github.com/plus3/roomloop/logging"
)

const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Backend       string
	AssetDir      string
	AssetFallback bool
	LegacyInput   bool
	Debug         bool
	Audio         bool

	LogFile  string
	LogLevel string

	Width     int
	Height    int
	TileScale float64
	Title     string

	LogicRate int
	DrawRate  int

	// KeyRelease is how long the terminal backend waits for a key repeat
	// before it reports the key as released.
	KeyRelease time.Duration
	// Duration bounds a run. Zero runs until quit.
	Duration time.Duration
}

func Default() Config {
	return Config{
		Backend:    BackendEbiten,
		AssetDir:   "assets",
		Audio:      true,
		LogLevel:   "info",
		Width:      1366,
		Height:     768,
		TileScale:  32,
		Title:      "roomloop",
		LogicRate:  240,
		DrawRate:   60,
		KeyRelease: 500 * time.Millisecond,
	}
}

// Parse reads flags from args (without the program name) on top of the
// defaults and validates the result.
func Parse(name string, args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Output backend: ebiten, terminal or headless.")
	fs.StringVar(&cfg.AssetDir, "assets", cfg.AssetDir, "Directory holding the PNG assets.")
	fs.BoolVar(&cfg.AssetFallback, "asset-fallback", cfg.AssetFallback, "Substitute a placeholder image for missing assets instead of exiting.")
	fs.BoolVar(&cfg.LegacyInput, "legacy-input", cfg.LegacyInput, "Use the single-slot axis input rule instead of tracking held keys.")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Show the performance overlay (ebiten backend only).")
	fs.BoolVar(&cfg.Audio, "audio", cfg.Audio, "Play click and hover feedback tones.")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Rotating log file. Empty logs to stderr.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error.")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Window width in pixels.")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Window height in pixels.")
	fs.Float64Var(&cfg.TileScale, "tile-scale", cfg.TileScale, "Tile edge length in pixels.")
	fs.StringVar(&cfg.Title, "title", cfg.Title, "Window title.")
	fs.IntVar(&cfg.LogicRate, "logic-rate", cfg.LogicRate, "Logic loop frequency in Hz. 0 runs unthrottled.")
	fs.IntVar(&cfg.DrawRate, "draw-rate", cfg.DrawRate, "Draw loop cap in frames per second. 0 disables the cap.")
	fs.DurationVar(&cfg.KeyRelease, "key-release", cfg.KeyRelease, "Idle time after which the terminal backend releases a key.")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "Stop after this long. 0 runs until quit.")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendEbiten, BackendTerminal, BackendHeadless:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.TileScale <= 0 {
		return fmt.Errorf("%w: tile scale %v", ErrInvalid, c.TileScale)
	}
	if c.LogicRate < 0 || c.DrawRate < 0 {
		return fmt.Errorf("%w: negative loop rate", ErrInvalid)
	}
	if c.KeyRelease <= 0 {
		return fmt.Errorf("%w: key release window %s", ErrInvalid, c.KeyRelease)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration %s", ErrInvalid, c.Duration)
	}
	if c.Backend == BackendTerminal && c.LogFile == "" {
		return fmt.Errorf("%w: the terminal backend needs -log-file", ErrInvalid)
	}
	return nil
}

// Engine returns the loop configuration.
func (c Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.LogicRate = c.LogicRate
	ec.DrawRate = c.DrawRate
	return ec
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.File = c.LogFile
	lc.Level = c.LogLevel
	return lc
}
