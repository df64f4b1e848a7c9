package engine

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAlreadyRunning = errors.New("program already running")
	ErrQueueFull      = errors.New("request queue full")
)

// InputSource is polled once per logic iteration. Poll returns the events
// queued since the previous call. Both methods must be safe to call from a
// goroutine other than the one feeding the source.
type InputSource interface {
	Poll() []input.Event
	Pointer() geom.Vec2
}

// Sink receives composed frames from the draw loop. Present is only ever
// called from the draw goroutine; Close is called once after the draw loop
// has returned.
type Sink interface {
	Present(f *render.Frame) error
	Close() error
}

// Config controls loop timing.
type Config struct {
	// LogicRate is the logic loop frequency in Hz. Zero runs the loop as fast
	// as it can.
	LogicRate int
	// DrawRate caps the draw loop. Zero disables the cap.
	DrawRate   int
	Background color.RGBA
	// RequestBuffer is the capacity of the Do queue.
	RequestBuffer int
}

func DefaultConfig() Config {
	return Config{
		LogicRate:     240,
		DrawRate:      60,
		Background:    color.RGBA{0, 0, 0, 0xff},
		RequestBuffer: 64,
	}
}

type Option func(*Program)

func WithLogger(log *zap.Logger) Option {
	return func(p *Program) { p.log = log }
}

// WithGame makes g the active game. Without it the program starts in menu
// mode.
func WithGame(g *world.Game) Option {
	return func(p *Program) { p.game = g }
}

func WithUI(components ...*ui.Component) Option {
	return func(p *Program) {
		for _, c := range components {
			p.layer.Add(c)
		}
	}
}

// WithAccumulator replaces the default held-keys input rule.
func WithAccumulator(acc input.Accumulator) Option {
	return func(p *Program) { p.accumulator = acc }
}

// WithSystem registers an extra logic system that runs after the built-in
// ones and before commands are flushed.
func WithSystem(s System) Option {
	return func(p *Program) { p.extra = append(p.extra, s) }
}

// Program owns the logic loop, the draw loop and all game state. Game state
// is only touched by the logic goroutine; the draw goroutine sees immutable
// scene snapshots.
type Program struct {
	cfg         Config
	log         *zap.Logger
	accumulator input.Accumulator
	input       *input.State
	layer       *ui.Layer
	game        *world.Game
	commands    *world.Commands
	requests    chan func(*world.Commands)
	scheduler   *Scheduler
	collisions  *CollisionSystem
	extra       []System

	composer *render.Composer
	limiter  *render.Limiter

	running atomic.Bool
	scene   atomic.Pointer[render.Scene]
	seq     uint64

	logic loopCounter
	draw  loopCounter
}

// New builds a program. It allocates state only; nothing runs until Run.
func New(cfg Config, opts ...Option) (*Program, error) {
	if cfg.LogicRate < 0 {
		return nil, fmt.Errorf("invalid logic rate %d", cfg.LogicRate)
	}
	if cfg.DrawRate < 0 {
		return nil, fmt.Errorf("invalid draw rate %d", cfg.DrawRate)
	}
	if cfg.RequestBuffer <= 0 {
		cfg.RequestBuffer = DefaultConfig().RequestBuffer
	}

	p := &Program{
		cfg:      cfg,
		log:      zap.NewNop(),
		layer:    ui.NewLayer(),
		commands: world.NewCommands(),
		requests: make(chan func(*world.Commands), cfg.RequestBuffer),
		composer: render.NewComposer(cfg.Background),
		limiter:  render.NewLimiter(cfg.DrawRate),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.accumulator == nil {
		p.accumulator = input.NewHeldKeys(input.DefaultBindings)
	}
	p.input = input.NewState(p.accumulator, input.DefaultBindings)

	p.collisions = &CollisionSystem{}
	p.scheduler = NewScheduler()
	p.scheduler.Register(&EventSystem{Input: p.input, UI: p.layer, Stop: p.Stop, Log: p.log})
	p.scheduler.Register(&HoverSystem{UI: p.layer, Log: p.log})
	p.scheduler.Register(&IntentSystem{Input: p.input})
	p.scheduler.Register(p.collisions)
	p.scheduler.Register(&UpdateSystem{})
	for _, s := range p.extra {
		p.scheduler.Register(s)
	}

	p.publish()
	return p, nil
}

// Run starts the draw loop on a new goroutine and the logic loop on the
// calling goroutine. It returns after a quit request, Stop, or cancellation
// of ctx, once the draw loop has finished and the sink is closed.
func (p *Program) Run(ctx context.Context, src InputSource, sink Sink) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	p.log.Info("program starting",
		zap.Int("logic_rate", p.cfg.LogicRate),
		zap.Int("draw_rate", p.cfg.DrawRate),
		zap.Bool("menu_mode", p.game == nil),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.drawLoop(gctx, sink)
	})

	p.logicLoop(gctx, src)
	p.running.Store(false)

	drawErr := g.Wait()
	closeErr := sink.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("close sink: %w", closeErr)
	}

	stats := p.Stats()
	p.log.Info("program stopped",
		zap.Uint64("logic_iterations", stats.Logic.Iterations),
		zap.Uint64("draw_iterations", stats.Draw.Iterations),
	)
	return errors.Join(drawErr, closeErr)
}

// Stop asks both loops to exit after their current iteration.
func (p *Program) Stop() {
	p.running.Store(false)
}

// Running reports whether the loops are active.
func (p *Program) Running() bool {
	return p.running.Load()
}

// Do queues fn to be applied to the command buffer at the start of the next
// logic iteration. It is safe to call from any goroutine and never blocks.
func (p *Program) Do(fn func(*world.Commands)) error {
	select {
	case p.requests <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// SetGame switches the active game at the end of the next logic iteration.
// A nil game switches to menu mode.
func (p *Program) SetGame(g *world.Game) error {
	return p.Do(func(c *world.Commands) { c.SetGame(g) })
}

// Scene returns the most recently published snapshot.
func (p *Program) Scene() *render.Scene {
	return p.scene.Load()
}

// Game returns the active game. Only safe to call while the program is not
// running or from inside a System.
func (p *Program) Game() *world.Game {
	return p.game
}

// Layer returns the UI layer.
func (p *Program) Layer() *ui.Layer {
	return p.layer
}

// Step runs a single logic iteration with the given delta in seconds. It is
// what the logic loop calls each tick and must not be used while Run is
// active.
func (p *Program) Step(dt float64, src InputSource) {
	start := time.Now()
	p.drainRequests()

	frame := &UpdateFrame{
		DeltaTime: dt,
		Events:    src.Poll(),
		Pointer:   src.Pointer(),
		Commands:  p.commands,
		Game:      p.game,
	}
	p.scheduler.Once(frame)

	if !p.commands.Empty() {
		prev := p.game
		p.game = p.commands.Flush(p.game)
		if prev != p.game {
			p.log.Info("active game switched", zap.Bool("menu_mode", p.game == nil))
		}
	}
	p.publish()
	p.logic.record(time.Duration(dt*float64(time.Second)), time.Since(start))
}

func (p *Program) drainRequests() {
	for {
		select {
		case fn := <-p.requests:
			fn(p.commands)
		default:
			return
		}
	}
}

func (p *Program) publish() {
	p.seq++
	p.scene.Store(render.Snapshot(p.seq, p.game, p.layer))
}

func (p *Program) logicLoop(ctx context.Context, src InputSource) {
	var tick <-chan time.Time
	if p.cfg.LogicRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(p.cfg.LogicRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	last := time.Now()
	for p.running.Load() {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return
		}

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		p.Step(dt, src)
	}
}

func (p *Program) drawLoop(ctx context.Context, sink Sink) error {
	last := time.Now()
	for p.running.Load() && ctx.Err() == nil {
		start := time.Now()
		frame := p.composer.Compose(p.scene.Load())
		p.limiter.Wait()

		if err := sink.Present(frame); err != nil {
			p.Stop()
			return fmt.Errorf("present frame %d: %w", frame.Number, err)
		}

		now := time.Now()
		p.draw.record(now.Sub(last), now.Sub(start))
		last = now
	}
	return nil
}
