package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/backend/headless"
	"github.com/plus3/roomloop/engine"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/logging"
	"github.com/plus3/roomloop/render"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
)

const (
	width     = 1366
	height    = 768
	tileScale = 32
)

// WanderSystem keeps the non-player entities moving and churns the room by
// replacing random entities through the command buffer.
type WanderSystem struct {
	rng   *rand.Rand
	churn int
	image asset.Handle
}

func (s *WanderSystem) Execute(frame *engine.UpdateFrame) {
	game := frame.Game
	if game == nil {
		return
	}

	entities := game.Room.Entities()
	for _, e := range entities {
		if e == game.Player || e.Motion == nil {
			continue
		}
		if s.rng.Intn(30) == 0 || (e.MoveX() == 0 && e.MoveY() == 0) {
			e.SetMove(float64(s.rng.Intn(3)-1), float64(s.rng.Intn(3)-1))
		}
		e.SetPos(wrap(e.PosX(), game.Width), wrap(e.PosY(), game.Height))
	}

	for i := 0; i < s.churn && len(entities) > 1; i++ {
		victim := entities[s.rng.Intn(len(entities))]
		if victim == game.Player {
			continue
		}
		frame.Commands.Delete(victim.ID)
		frame.Commands.Spawn(s.crate())
	}
}

func (s *WanderSystem) crate() *world.Entity {
	return world.NewEntity("crate",
		s.rng.Float64()*width, s.rng.Float64()*height,
		tileScale, tileScale,
	).WithMotion(float64(50 + s.rng.Intn(150))).WithSprite(s.image)
}

func wrap(v, limit float64) float64 {
	switch {
	case v < 0:
		return limit
	case v > limit:
		return 0
	default:
		return v
	}
}

var keys = []input.Key{input.KeyW, input.KeyA, input.KeyS, input.KeyD}

// driveInput simulates a player mashing movement keys and waving the mouse.
func driveInput(ctx context.Context, b *headless.Backend, rng *rand.Rand) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	held := map[input.Key]bool{}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k := keys[rng.Intn(len(keys))]
			if held[k] {
				b.Push(input.KeyUp(k))
			} else {
				b.Push(input.KeyDown(k))
			}
			held[k] = !held[k]
			x, y := rng.Float64()*width, rng.Float64()*height
			b.MovePointer(x, y)
			if rng.Intn(10) == 0 {
				b.Push(input.MouseDown(x, y))
			}
		}
	}
}

func solid(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, tileScale, tileScale))
	for y := 0; y < tileScale; y++ {
		for x := 0; x < tileScale; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 1000, "The number of wandering entities to create.")
	tileCount := flag.Int("tiles", 200, "The number of blocking tiles to place.")
	logicRate := flag.Int("logic-rate", 240, "Logic loop frequency in Hz. 0 runs unthrottled.")
	drawRate := flag.Int("draw-rate", 60, "Draw loop cap in frames per second. 0 disables the cap.")
	churn := flag.Int("churn", 5, "Entities replaced per logic iteration.")
	seed := flag.Int64("seed", 1, "Random seed.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, syncLog, err := logging.New(logging.DefaultConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer syncLog()
	log := logger.Sugar()

	log.Info("Starting room loop stress test...")
	rng := rand.New(rand.NewSource(*seed))

	lib := asset.NewLibrary(nil)
	playerImg := lib.Add("player", solid(color.RGBA{0xff, 0xff, 0, 0xff}))
	crateImg := lib.Add("crate", solid(color.RGBA{0x80, 0x50, 0x20, 0xff}))
	wallImg := lib.Add("wall", solid(color.RGBA{0x40, 0x80, 0x40, 0xff}))

	game := world.NewGame(width, height, world.PlayerConfig{
		Pos:    geom.V(tileScale/2, tileScale/2),
		Size:   geom.V(tileScale, tileScale),
		Speed:  4 * tileScale,
		Frames: []asset.Handle{playerImg},
	})

	wander := &WanderSystem{rng: rng, churn: *churn, image: crateImg}
	log.Infof("Populating room with %d entities and %d tiles...", *entityCount, *tileCount)
	for i := 0; i < *entityCount; i++ {
		game.Room.AddEntity(wander.crate())
	}
	for i := 0; i < *tileCount; i++ {
		x := float64(rng.Intn(width/tileScale))*tileScale + tileScale/2
		y := float64(rng.Intn(height/tileScale))*tileScale + tileScale/2
		game.Room.AddTile(world.NewTile(x, y, tileScale, wallImg, true))
	}

	panel := ui.NewComponent("panel", width/2, height*0.89, width, 4*tileScale)
	panel.BorderSize = 1
	panel.Text = "stress"
	panel.SetVisible(true)

	cfg := engine.DefaultConfig()
	cfg.LogicRate = *logicRate
	cfg.DrawRate = *drawRate
	prog, err := engine.New(cfg,
		engine.WithGame(game),
		engine.WithUI(panel),
		engine.WithSystem(wander),
		engine.WithLogger(logger.Named("engine")),
	)
	if err != nil {
		log.Fatalf("Failed to create program: %v", err)
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Tiles:          *tileCount,
		LogicRate:      *logicRate,
		DrawRate:       *drawRate,
		Churn:          *churn,
		GCPauseMetrics: *gcPauseMetrics,
	}

	backend := headless.New()
	var lastPresent time.Time
	backend.OnPresent = func(*render.Frame) error {
		now := time.Now()
		if !lastPresent.IsZero() {
			report.PresentGap.Samples = append(report.PresentGap.Samples, now.Sub(lastPresent))
		}
		lastPresent = now
		return nil
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Infof("Running for %s...", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	go driveInput(ctx, backend, rand.New(rand.NewSource(*seed+1)))

	startTime := time.Now()
	if err := prog.Run(ctx, backend, backend); err != nil {
		log.Fatalf("Program failed: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	report.Program = prog.Stats()
	report.Frames = backend.Frames()
	for _, t := range []render.CommandType{render.CmdFill, render.CmdSprite, render.CmdRect, render.CmdText} {
		report.Commands += backend.Presented(t)
	}
	report.PresentGap.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("Run finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Info("Stress test complete.")
}
