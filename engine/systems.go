package engine

import (
	"sync/atomic"

	"github.com/plus3/roomloop/collision"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/ui"
	"go.uber.org/zap"
)

// EventSystem drains the frame's input events: quit requests stop the
// program, mouse-downs are dispatched to the UI, key transitions feed the
// input state.
type EventSystem struct {
	Input *input.State
	UI    *ui.Layer
	Stop  func()
	Log   *zap.Logger
}

func (s *EventSystem) Execute(frame *UpdateFrame) {
	for _, ev := range frame.Events {
		switch ev.Type {
		case input.EventQuit:
			s.Log.Info("quit requested")
			s.Stop()
		case input.EventMouseDown:
			if c := s.UI.Click(ev.Pos); c != nil {
				s.Log.Info("ui clicked", zap.String("component", c.Name),
					zap.Float64("x", ev.Pos.X), zap.Float64("y", ev.Pos.Y))
			}
		case input.EventKeyDown:
			if ev.Key == input.KeyEscape {
				s.Log.Info("quit requested", zap.Stringer("key", ev.Key))
				s.Stop()
				continue
			}
			s.Input.Apply(ev)
		case input.EventKeyUp:
			s.Input.Apply(ev)
		}
	}
}

// HoverSystem moves the UI hover slot to follow the pointer.
type HoverSystem struct {
	UI  *ui.Layer
	Log *zap.Logger
}

func (s *HoverSystem) Execute(frame *UpdateFrame) {
	for _, ev := range s.UI.Hover(frame.Pointer) {
		if ev.Begin {
			s.Log.Debug("hover begin", zap.String("component", ev.Component.Name))
		} else {
			s.Log.Debug("hover end", zap.String("component", ev.Component.Name))
		}
	}
}

// IntentSystem copies the raw input intent onto the player. This also undoes
// any axis zeroed by collision in the previous frame.
type IntentSystem struct {
	Input *input.State
}

func (s *IntentSystem) Execute(frame *UpdateFrame) {
	if frame.Game == nil || frame.Game.Player == nil {
		return
	}
	frame.Game.Player.SetMove(s.Input.Intent())
}

// CollisionSystem resolves every entity against every blocking tile of the
// active room.
type CollisionSystem struct {
	hits atomic.Int64
}

func (s *CollisionSystem) Execute(frame *UpdateFrame) {
	if frame.Game == nil || frame.Game.Room == nil {
		s.hits.Store(0)
		return
	}
	s.hits.Store(int64(collision.ResolveRoom(frame.Game.Room)))
}

// Hits returns the number of entity/tile pairs that blocked in the last frame.
func (s *CollisionSystem) Hits() int {
	return int(s.hits.Load())
}

// UpdateSystem advances every entity of the active room by the frame delta.
type UpdateSystem struct{}

func (s *UpdateSystem) Execute(frame *UpdateFrame) {
	if frame.Game == nil || frame.Game.Room == nil {
		return
	}
	for _, e := range frame.Game.Room.Entities() {
		e.Update(frame.DeltaTime)
	}
}
