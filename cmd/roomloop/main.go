package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/audio"
	"github.com/plus3/roomloop/backend/ebitenui"
	"github.com/plus3/roomloop/backend/headless"
	"github.com/plus3/roomloop/backend/terminal"
	"github.com/plus3/roomloop/config"
	"github.com/plus3/roomloop/debugui"
	"github.com/plus3/roomloop/engine"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/logging"
	"github.com/plus3/roomloop/scene"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse("roomloop", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log, syncLog, err := logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer syncLog()

	var libOpts []asset.Option
	if cfg.AssetFallback {
		libOpts = append(libOpts, asset.WithFallback())
	}
	lib := asset.NewLibrary(os.DirFS(cfg.AssetDir), libOpts...)

	sceneOpts := scene.Options{
		Width:     float64(cfg.Width),
		Height:    float64(cfg.Height),
		TileScale: cfg.TileScale,
		Log:       log.Named("scene"),
	}
	if cfg.Audio && cfg.Backend != config.BackendHeadless {
		fb := audio.New(log.Named("audio"), 0.3)
		if err := fb.Init(); err != nil {
			// the program runs fine without sound
			log.Warn("audio unavailable", zap.Error(err))
		}
		defer fb.Close()
		sceneOpts.Feedback = fb
	}

	sc, err := scene.Default(lib, sceneOpts)
	if err != nil {
		log.Error("failed to build scene", zap.Error(err))
		return 1
	}

	opts := []engine.Option{
		engine.WithLogger(log.Named("engine")),
		engine.WithGame(sc.Game),
		engine.WithUI(sc.UI...),
	}
	if cfg.LegacyInput {
		opts = append(opts, engine.WithAccumulator(input.NewLegacy(input.DefaultBindings)))
	}
	prog, err := engine.New(cfg.Engine(), opts...)
	if err != nil {
		log.Error("failed to create program", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	switch cfg.Backend {
	case config.BackendEbiten:
		err = runEbiten(ctx, cfg, prog, lib, sc, log)
	case config.BackendTerminal:
		err = runTerminal(ctx, cfg, prog, lib)
	case config.BackendHeadless:
		err = runHeadless(ctx, prog, log)
	}
	if err != nil {
		log.Error("program failed", zap.Error(err))
		return 1
	}
	return 0
}

// runEbiten runs the program loops on a goroutine because ebiten must own
// the main one.
func runEbiten(ctx context.Context, cfg config.Config, prog *engine.Program, lib *asset.Library, sc *scene.Scene, log *zap.Logger) error {
	var overlay *debugui.Overlay
	if cfg.Debug {
		overlay = debugui.NewOverlay(cfg.Title, cfg.Width, cfg.Height)
		overlay.Add(debugui.NewPerformanceStats(120, prog.Stats).Render)
	}

	b, err := ebitenui.New(lib, log.Named("ebiten"), ebitenui.Options{
		Title:   cfg.Title,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Icon:    sc.Icon,
		Overlay: overlay,
	})
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- prog.Run(ctx, b, b)
	}()

	if err := b.Run(); err != nil {
		prog.Stop()
		return errors.Join(err, <-done)
	}
	return <-done
}

func runTerminal(ctx context.Context, cfg config.Config, prog *engine.Program, lib *asset.Library) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	b, err := terminal.New(screen, lib, terminal.Options{KeyRelease: cfg.KeyRelease})
	if err != nil {
		return err
	}
	return prog.Run(ctx, b, b)
}

func runHeadless(ctx context.Context, prog *engine.Program, log *zap.Logger) error {
	b := headless.New()
	if err := prog.Run(ctx, b, b); err != nil {
		return err
	}
	log.Info("headless run finished", zap.Uint64("frames", b.Frames()), zap.Uint64("polls", b.Polls()))
	return nil
}
