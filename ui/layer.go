package ui

import "github.com/plus3/roomloop/geom"

// Layer is the ordered UI list plus the single hover slot. Later components
// are drawn on top of earlier ones. A Layer is owned by the logic loop.
type Layer struct {
	components []*Component
	hovered    *Component
}

// NewLayer creates a layer from components in draw order.
func NewLayer(components ...*Component) *Layer {
	return &Layer{components: components}
}

// Add appends a component on top.
func (l *Layer) Add(c *Component) {
	l.components = append(l.components, c)
}

// Components returns the components in draw order.
func (l *Layer) Components() []*Component {
	return l.components
}

// Hovered returns the component in the hover slot, or nil.
func (l *Layer) Hovered() *Component {
	return l.hovered
}

// Click dispatches a mouse-down at p to the topmost visible component under
// it. At most one component is clicked; the clicked component is returned.
func (l *Layer) Click(p geom.Vec2) *Component {
	for i := len(l.components) - 1; i >= 0; i-- {
		c := l.components[i]
		if !c.Visible {
			continue
		}
		if HitTest(p, c.Transform) {
			c.click()
			return c
		}
	}
	return nil
}

// HoverEvent describes a hover slot transition.
type HoverEvent struct {
	Component *Component
	Begin     bool
}

// Hover updates the hover slot for pointer position p and returns the
// transitions that fired, in order.
//
// While a component is hovered only the first visible component iteration is
// evaluated: it checks whether the hovered component still contains the
// pointer, fires hover-end if not, and stops. No new component can be hovered
// in the same call, and components are never re-scanned while the slot is
// held.
func (l *Layer) Hover(p geom.Vec2) []HoverEvent {
	var events []HoverEvent
	for _, c := range l.components {
		if !c.Visible {
			continue
		}
		if l.hovered != nil {
			if !HitTest(p, l.hovered.Transform) {
				prev := l.hovered
				l.hovered = nil
				prev.hoverEnd()
				events = append(events, HoverEvent{Component: prev})
			}
			break
		}
		if HitTest(p, c.Transform) {
			l.hovered = c
			c.hoverBegin()
			events = append(events, HoverEvent{Component: c, Begin: true})
		}
	}
	return events
}

// Views returns snapshots of the visible components in draw order.
func (l *Layer) Views() []View {
	views := make([]View, 0, len(l.components))
	for _, c := range l.components {
		if c.Visible {
			views = append(views, c.View())
		}
	}
	return views
}
