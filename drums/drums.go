package drums

import (
	"fmt"

	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/sample"
)

const (
	beatsPerBar   = 4
	eighthsPerBar = 8
)

var (
	kickBeats  = []int{0, 2}
	snareBeats = []int{1, 3}
)

// LoopDurationMs is the length of one 4/4 bar at tempo.
func LoopDurationMs(tempo int) float64 {
	return beatsPerBar * 60000 / float64(tempo)
}

// AttenuationDb is the gain applied to every sample for a drum volume in [0, 1].
func AttenuationDb(volume float64) float64 {
	return -(1 - volume) * constants.DrumAttenuationDb
}

func validate(tempo int, volume float64) error {
	if tempo <= 0 {
		return model.NewValidationError("tempo", fmt.Sprintf("must be positive, got %d", tempo))
	}
	if volume < 0 || volume > 1 {
		return model.NewValidationError("drum_volume", fmt.Sprintf("must be within [0, 1], got %v", volume))
	}
	return nil
}

// Bar lays one bar of the bank out in the given format: kick on beats 1 and 3,
// snare on 2 and 4, hi-hat on every eighth.
func Bar(bank *sample.Bank, tempo int, volume float64, sampleRate, channels int) (*audio.Segment, error) {
	if err := validate(tempo, volume); err != nil {
		return nil, err
	}

	gain := AttenuationDb(volume)
	prep := func(s *audio.Segment) *audio.Segment {
		return s.Conform(sampleRate, channels).Gain(gain)
	}
	kick, snare, hihat := prep(bank.Kick), prep(bank.Snare), prep(bank.HiHat)

	beat := 60000 / float64(tempo)
	bar := audio.Silent(LoopDurationMs(tempo), sampleRate, channels)
	for _, b := range kickBeats {
		bar = bar.Overlay(kick, float64(b)*beat)
	}
	for _, b := range snareBeats {
		bar = bar.Overlay(snare, float64(b)*beat)
	}
	eighth := beat / 2
	for i := 0; i < eighthsPerBar; i++ {
		bar = bar.Overlay(hihat, float64(i)*eighth)
	}
	return bar, nil
}

// Add overlays a drum loop from bank across the whole of seg. A nil bank
// leaves seg as it is. The result has exactly the length of seg.
func Add(seg *audio.Segment, bank *sample.Bank, tempo int, volume float64) (*audio.Segment, error) {
	if bank == nil {
		return seg, nil
	}

	bar, err := Bar(bank, tempo, volume, seg.SampleRate, seg.Channels)
	if err != nil {
		return nil, err
	}
	barFrames := bar.Frames()
	if barFrames == 0 {
		return nil, fmt.Errorf("drum bar at tempo %d is shorter than one frame", tempo)
	}

	frames := seg.Frames()
	track := bar.Repeat(frames/barFrames + 1).Truncate(frames)
	logger.Debug("Laying drum loop", "tempo", tempo, "bar_frames", barFrames, "frames", frames)
	return seg.OverlayFrame(track, 0), nil
}

// Apply is Add for a style looked up in lib.
func Apply(seg *audio.Segment, lib *sample.Library, style sample.Style, tempo int, volume float64) (*audio.Segment, error) {
	if style == sample.None {
		return seg, nil
	}
	if lib == nil {
		return nil, fmt.Errorf("no sample library for %v drums", style)
	}
	bank, err := lib.Load(style)
	if err != nil {
		return nil, err
	}
	return Add(seg, bank, tempo, volume)
}
