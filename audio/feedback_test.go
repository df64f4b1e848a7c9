package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestTone(t *testing.T) {
	s, err := tone(clickFreq, clickDuration, 0.5)
	require.NoError(t, err)
	assert.Equal(t, sampleRate.N(clickDuration), drain(s))

	_, err = tone(float64(sampleRate), clickDuration, 1)
	assert.Error(t, err, "frequency above the Nyquist limit")
}

func TestFeedback(t *testing.T) {
	f := New(zap.NewNop(), 1)
	var played int
	f.play = func(beep.Streamer) { played++ }

	f.Click()
	f.Hover()
	assert.Zero(t, played, "tones are dropped until Init")

	f.ready = true
	f.Click()
	f.Hover()
	assert.Equal(t, 2, played)
}
