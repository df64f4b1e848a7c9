package input

// Accumulator turns key transitions into an intent of -1, 0 or 1 per axis.
type Accumulator interface {
	Press(k Key)
	Release(k Key)
	Axis(a Axis) int
}

// State is the InputState read by the logic loop. It routes key transitions
// through the configured Accumulator using a set of key bindings.
type State struct {
	bindings map[Key]Binding
	acc      Accumulator
}

// NewState creates an input state. A nil accumulator defaults to HeldKeys and
// nil bindings default to DefaultBindings.
func NewState(acc Accumulator, bindings map[Key]Binding) *State {
	if acc == nil {
		acc = NewHeldKeys(bindings)
	}
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &State{bindings: bindings, acc: acc}
}

// Apply feeds a key event into the accumulator. Non-key events and unbound
// keys are ignored. Returns true if the event was consumed.
func (s *State) Apply(ev Event) bool {
	if _, ok := s.bindings[ev.Key]; !ok {
		return false
	}
	switch ev.Type {
	case EventKeyDown:
		s.acc.Press(ev.Key)
	case EventKeyUp:
		s.acc.Release(ev.Key)
	default:
		return false
	}
	return true
}

// Axis returns the current intent for the axis.
func (s *State) Axis(a Axis) int {
	return s.acc.Axis(a)
}

// Intent returns both components as floats, ready to assign to an entity.
func (s *State) Intent() (float64, float64) {
	return float64(s.acc.Axis(AxisX)), float64(s.acc.Axis(AxisY))
}

// HeldKeys derives intent from the set of keys currently held:
// (any positive key held) - (any negative key held).
type HeldKeys struct {
	bindings map[Key]Binding
	held     map[Key]bool
}

func NewHeldKeys(bindings map[Key]Binding) *HeldKeys {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &HeldKeys{
		bindings: bindings,
		held:     make(map[Key]bool),
	}
}

func (h *HeldKeys) Press(k Key) {
	if _, ok := h.bindings[k]; ok {
		h.held[k] = true
	}
}

func (h *HeldKeys) Release(k Key) {
	delete(h.held, k)
}

func (h *HeldKeys) Axis(a Axis) int {
	var pos, neg bool
	for k := range h.held {
		b := h.bindings[k]
		if b.Axis != a {
			continue
		}
		if b.Unit > 0 {
			pos = true
		} else if b.Unit < 0 {
			neg = true
		}
	}

	intent := 0
	if pos {
		intent++
	}
	if neg {
		intent--
	}
	return intent
}

// Legacy reproduces the inverse-of-current accumulation: a key-down sets the
// axis to the key's unit and a key-up sets it to clamp(-current + unit).
// Releasing one key while the opposite key is held leaves the axis pointing
// the wrong way.
type Legacy struct {
	bindings map[Key]Binding
	axes     [2]int
}

func NewLegacy(bindings map[Key]Binding) *Legacy {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Legacy{bindings: bindings}
}

func (l *Legacy) Press(k Key) {
	b, ok := l.bindings[k]
	if !ok {
		return
	}
	l.axes[b.Axis] = b.Unit
}

func (l *Legacy) Release(k Key) {
	b, ok := l.bindings[k]
	if !ok {
		return
	}
	l.axes[b.Axis] = clampUnit(-l.axes[b.Axis] + b.Unit)
}

func (l *Legacy) Axis(a Axis) int {
	return l.axes[a]
}

func clampUnit(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
