// Package audio plays short UI feedback tones.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

const (
	clickFreq     = 880.0
	clickDuration = 50 * time.Millisecond
	hoverFreq     = 440.0
	hoverDuration = 20 * time.Millisecond
)

// Feedback plays a tone on UI clicks and hover changes. Until Init succeeds
// every method is a no-op, so the program runs fine without a sound device.
type Feedback struct {
	mu     sync.Mutex
	log    *zap.Logger
	mixer  *beep.Mixer
	volume float64
	ready  bool

	play func(s beep.Streamer)
}

func New(log *zap.Logger, volume float64) *Feedback {
	f := &Feedback{
		log:    log,
		mixer:  &beep.Mixer{},
		volume: volume,
	}
	f.play = func(s beep.Streamer) {
		speaker.Lock()
		f.mixer.Add(s)
		speaker.Unlock()
	}
	return f
}

// Init opens the sound device.
func (f *Feedback) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(f.mixer)
	f.ready = true
	return nil
}

func (f *Feedback) Click() {
	f.emit(clickFreq, clickDuration)
}

func (f *Feedback) Hover() {
	f.emit(hoverFreq, hoverDuration)
}

func (f *Feedback) emit(freq float64, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return
	}
	s, err := tone(freq, d, f.volume)
	if err != nil {
		f.log.Warn("tone failed", zap.Float64("freq", freq), zap.Error(err))
		return
	}
	f.play(s)
}

// Close stops playback and releases the device.
func (f *Feedback) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return
	}
	speaker.Lock()
	f.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	f.ready = false
}

func tone(freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	s := beep.Take(sampleRate.N(d), sine)
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}, nil
}
