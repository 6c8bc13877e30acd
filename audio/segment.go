package audio

import (
	"math"

	"github.com/jsphweid/chordgen/util"
)

// Segment is interleaved PCM audio with samples in [-1, 1]. Operations
// return new segments and leave the receiver untouched.
type Segment struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// FramesFor converts a duration in milliseconds to whole frames.
func FramesFor(ms float64, sampleRate int) int {
	return int(ms * float64(sampleRate) / 1000)
}

func Silent(durationMs float64, sampleRate, channels int) *Segment {
	return &Segment{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]float64, FramesFor(durationMs, sampleRate)*channels),
	}
}

func (s *Segment) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Samples) / s.Channels
}

func (s *Segment) DurationMs() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(s.Frames()) * 1000 / float64(s.SampleRate)
}

func (s *Segment) clone(samples []float64) *Segment {
	return &Segment{SampleRate: s.SampleRate, Channels: s.Channels, Samples: samples}
}

// Gain changes loudness by db decibels; negative values attenuate.
func (s *Segment) Gain(db float64) *Segment {
	factor := math.Pow(10, db/20)
	res := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		res[i] = v * factor
	}
	return s.clone(res)
}

// OverlayFrame mixes other into a copy of s starting at frame. Whatever runs
// past the end of s is dropped; sums are clipped to [-1, 1].
func (s *Segment) OverlayFrame(other *Segment, frame int) *Segment {
	res := make([]float64, len(s.Samples))
	copy(res, s.Samples)
	if frame < 0 {
		frame = 0
	}
	start := frame * s.Channels
	for i, v := range other.Samples {
		j := start + i
		if j >= len(res) {
			break
		}
		res[j] = util.Clamp(res[j]+v, -1, 1)
	}
	return s.clone(res)
}

// Overlay mixes other in at positionMs. other must share the format of s,
// see Conform.
func (s *Segment) Overlay(other *Segment, positionMs float64) *Segment {
	return s.OverlayFrame(other, FramesFor(positionMs, s.SampleRate))
}

func (s *Segment) Repeat(n int) *Segment {
	if n < 0 {
		n = 0
	}
	res := make([]float64, 0, len(s.Samples)*n)
	for i := 0; i < n; i++ {
		res = append(res, s.Samples...)
	}
	return s.clone(res)
}

// Truncate keeps at most frames frames.
func (s *Segment) Truncate(frames int) *Segment {
	n := util.Min(frames*s.Channels, len(s.Samples))
	if n < 0 {
		n = 0
	}
	res := make([]float64, n)
	copy(res, s.Samples[:n])
	return s.clone(res)
}

// Conform converts s to the given rate and channel count. Mono is duplicated
// across channels, more channels fold down by averaging; rate changes use
// linear interpolation.
func (s *Segment) Conform(sampleRate, channels int) *Segment {
	res := s
	if s.Channels != channels {
		res = res.remix(channels)
	}
	if s.SampleRate != sampleRate {
		res = res.resample(sampleRate)
	}
	return res
}

func (s *Segment) remix(channels int) *Segment {
	frames := s.Frames()
	out := make([]float64, frames*channels)
	for f := 0; f < frames; f++ {
		in := s.Samples[f*s.Channels : (f+1)*s.Channels]
		if len(in) == 1 {
			for c := 0; c < channels; c++ {
				out[f*channels+c] = in[0]
			}
			continue
		}
		var sum float64
		for _, v := range in {
			sum += v
		}
		avg := sum / float64(len(in))
		for c := 0; c < channels; c++ {
			if channels > 1 && c < len(in) {
				out[f*channels+c] = in[c]
			} else {
				out[f*channels+c] = avg
			}
		}
	}
	return &Segment{SampleRate: s.SampleRate, Channels: channels, Samples: out}
}

func (s *Segment) resample(sampleRate int) *Segment {
	frames := s.Frames()
	outFrames := int(float64(frames) * float64(sampleRate) / float64(s.SampleRate))
	out := make([]float64, outFrames*s.Channels)
	ratio := float64(s.SampleRate) / float64(sampleRate)
	for f := 0; f < outFrames; f++ {
		pos := float64(f) * ratio
		i := int(pos)
		frac := pos - float64(i)
		for c := 0; c < s.Channels; c++ {
			a := s.Samples[i*s.Channels+c]
			b := a
			if i+1 < frames {
				b = s.Samples[(i+1)*s.Channels+c]
			}
			out[f*s.Channels+c] = a + (b-a)*frac
		}
	}
	return &Segment{SampleRate: sampleRate, Channels: s.Channels, Samples: out}
}
