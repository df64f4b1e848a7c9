// Package scene builds the starting content of roomloop: one room with the
// player and a single blocking tile, plus a few UI panels.
package scene

import (
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
	"go.uber.org/zap"
)

const (
	PlayerImage = "player.png"
	TileImage   = "GrassMts.png"
	BannerImage = "TestBanner.png"
	IconImage   = "Icon.png"
)

// Feedback receives UI interaction notifications, typically for sound.
type Feedback interface {
	Click()
	Hover()
}

type Options struct {
	Width     float64
	Height    float64
	TileScale float64
	// PlayerSpeed is in pixels per second. Zero uses four tiles per second.
	PlayerSpeed float64
	Log         *zap.Logger
	Feedback    Feedback
}

// Scene is the assembled starting content.
type Scene struct {
	Game *world.Game
	UI   []*ui.Component
	Icon asset.Handle
}

// Default loads the default assets from lib and assembles the starting
// scene. A missing asset fails the build unless lib substitutes placeholders,
// in which case the substitution is logged.
func Default(lib *asset.Library, opts Options) (*Scene, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	load := func(name string) (asset.Handle, error) {
		h, err := lib.Load(name)
		if err != nil {
			if !h.Valid() {
				return 0, err
			}
			log.Warn("asset replaced by placeholder", zap.String("asset", name), zap.Error(err))
		}
		return h, nil
	}

	player, err := load(PlayerImage)
	if err != nil {
		return nil, err
	}
	grass, err := load(TileImage)
	if err != nil {
		return nil, err
	}
	banner, err := load(BannerImage)
	if err != nil {
		return nil, err
	}
	icon, err := load(IconImage)
	if err != nil {
		return nil, err
	}

	ts := opts.TileScale
	speed := opts.PlayerSpeed
	if speed == 0 {
		speed = 4 * ts
	}

	game := world.NewGame(opts.Width, opts.Height, world.PlayerConfig{
		Pos:    geom.V(ts*0.5, ts*0.5),
		Size:   geom.V(ts, ts),
		Speed:  speed,
		Frames: []asset.Handle{player},
		Hook: func(e *world.Entity, dt float64) {
			log.Debug("player update", zap.Float64("frame_delta", dt))
		},
	})
	game.Room.ClearTiles()
	game.Room.AddTile(world.NewTile(ts*4, ts*4, ts, grass, true))

	text := ui.NewComponent("UI 1", opts.Width/2, opts.Height*0.89, opts.Width, ts*4)
	text.BorderSize = 1
	text.Text = "test text here ..."
	text.SetVisible(true)

	hidden := ui.NewComponent("UI 2", 400, 400, 100, 100)

	bannerPanel := ui.NewComponent("Banner", 400, 100, 300, 100)
	bannerPanel.Image = banner

	components := []*ui.Component{text, hidden, bannerPanel}
	if opts.Feedback != nil {
		for _, c := range components {
			wire(c, opts.Feedback)
		}
	}

	return &Scene{
		Game: game,
		UI:   components,
		Icon: icon,
	}, nil
}

func wire(c *ui.Component, fb Feedback) {
	c.OnClick = func(*ui.Component) { fb.Click() }
	c.OnHoverBegin = func(*ui.Component) { fb.Hover() }
}
