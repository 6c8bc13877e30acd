package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v float64, frames, rate, channels int) *Segment {
	s := &Segment{SampleRate: rate, Channels: channels, Samples: make([]float64, frames*channels)}
	for i := range s.Samples {
		s.Samples[i] = v
	}
	return s
}

func TestSilentAndDuration(t *testing.T) {
	s := Silent(500, 1000, 2)
	assert.Equal(t, 500, s.Frames())
	assert.Len(t, s.Samples, 1000)
	assert.Equal(t, 500.0, s.DurationMs())

	assert.Equal(t, 0, (&Segment{}).Frames())
	assert.Equal(t, 0.0, (&Segment{}).DurationMs())
}

func TestFramesFor(t *testing.T) {
	assert.Equal(t, 44100, FramesFor(1000, 44100))
	assert.Equal(t, 22050, FramesFor(60000.0/120, 44100))
	assert.Equal(t, 0, FramesFor(0.01, 44100))
}

func TestGain(t *testing.T) {
	s := constant(0.5, 4, 1000, 1)
	quieter := s.Gain(-20)
	assert.InDelta(t, 0.05, quieter.Samples[0], 1e-12)
	assert.Equal(t, 0.5, s.Samples[0])
	assert.InDelta(t, 0.5, s.Gain(0).Samples[3], 1e-12)
}

func TestOverlayAddsAndKeepsLength(t *testing.T) {
	base := constant(0.25, 10, 1000, 1)
	hit := constant(0.5, 4, 1000, 1)

	mixed := base.Overlay(hit, 8)
	require.Len(t, mixed.Samples, 10)
	assert.Equal(t, 0.25, mixed.Samples[7])
	assert.Equal(t, 0.75, mixed.Samples[8])
	assert.Equal(t, 0.75, mixed.Samples[9])
	// base untouched
	assert.Equal(t, 0.25, base.Samples[8])
}

func TestOverlayClips(t *testing.T) {
	base := constant(0.8, 2, 1000, 2)
	mixed := base.OverlayFrame(constant(0.8, 2, 1000, 2), 0)
	for _, v := range mixed.Samples {
		assert.Equal(t, 1.0, v)
	}
	mixed = base.OverlayFrame(constant(-0.9, 1, 1000, 2), 1)
	assert.InDeltaSlice(t, []float64{0.8, 0.8, -0.1, -0.1}, mixed.Samples, 1e-12)
}

func TestRepeatAndTruncate(t *testing.T) {
	s := &Segment{SampleRate: 1000, Channels: 2, Samples: []float64{0.1, 0.2, 0.3, 0.4}}
	r := s.Repeat(3)
	assert.Equal(t, 6, r.Frames())
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.1, 0.2}, r.Samples[:6])

	tr := r.Truncate(3)
	assert.Equal(t, 3, tr.Frames())
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.1, 0.2}, tr.Samples)
	assert.Equal(t, 6, r.Truncate(100).Frames())
	assert.Equal(t, 0, s.Repeat(0).Frames())
}

func TestConformChannels(t *testing.T) {
	mono := &Segment{SampleRate: 1000, Channels: 1, Samples: []float64{0.5, -0.5}}
	stereo := mono.Conform(1000, 2)
	assert.Equal(t, []float64{0.5, 0.5, -0.5, -0.5}, stereo.Samples)

	back := (&Segment{SampleRate: 1000, Channels: 2, Samples: []float64{0.2, 0.4}}).Conform(1000, 1)
	assert.InDeltaSlice(t, []float64{0.3}, back.Samples, 1e-12)

	same := mono.Conform(1000, 1)
	assert.Same(t, mono, same)
}

func TestConformSampleRate(t *testing.T) {
	s := &Segment{SampleRate: 1000, Channels: 1, Samples: []float64{0, 1, 0, -1}}
	up := s.Conform(2000, 1)
	assert.Equal(t, 2000, up.SampleRate)
	assert.Equal(t, 8, up.Frames())
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5, 0, -0.5, -1, -1}, up.Samples, 1e-12)

	down := s.Conform(500, 1)
	assert.Equal(t, []float64{0, 0}, down.Samples)
}
