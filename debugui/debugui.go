// Package debugui draws a Dear ImGui overlay on top of the ebiten backend.
package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// InputState tracks whether ImGui is consuming mouse or keyboard input.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay owns the ImGui context and the list of panels drawn each frame.
// All methods must be called from ebiten's goroutine.
type Overlay struct {
	backend *ebitenbackend.EbitenBackend
	items   []func()
	input   InputState
}

// NewOverlay creates the ImGui backend and the ebiten window it draws into.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Overlay{backend: backend}
}

// Add registers a panel render function.
func (o *Overlay) Add(render func()) {
	o.items = append(o.items, render)
}

// Update builds this frame's ImGui draw data. Call it from ebiten's Update.
func (o *Overlay) Update() {
	o.backend.BeginFrame()
	io := imgui.CurrentIO()
	o.input.WantCaptureMouse = io.WantCaptureMouse()
	o.input.WantCaptureKeyboard = io.WantCaptureKeyboard()
	for _, render := range o.items {
		render()
	}
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(w, h int) {
	o.backend.Layout(w, h)
}

// Input returns the capture state from the last Update.
func (o *Overlay) Input() InputState {
	return o.input
}
