package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/logger"
)

var ErrSoundfontNotFound = errors.New("soundfont not found")

// Synthesizer turns a standard MIDI file into a WAV file with a sound bank.
type Synthesizer interface {
	Render(ctx context.Context, midiPath, soundfont, wavPath string) error
}

// FluidSynth runs the fluidsynth binary in non-interactive file mode.
type FluidSynth struct {
	Binary     string
	SampleRate int
	Gain       float64
}

func NewFluidSynth(binary string, sampleRate int) *FluidSynth {
	if binary == "" {
		binary = "fluidsynth"
	}
	if sampleRate <= 0 {
		sampleRate = constants.SampleRate
	}
	return &FluidSynth{Binary: binary, SampleRate: sampleRate}
}

func (f *FluidSynth) args(midiPath, soundfont, wavPath string) []string {
	args := []string{"-ni"}
	if f.Gain > 0 {
		args = append(args, "-g", strconv.FormatFloat(f.Gain, 'f', -1, 64))
	}
	return append(args,
		soundfont,
		midiPath,
		"-F", wavPath,
		"-r", strconv.Itoa(f.SampleRate),
	)
}

func (f *FluidSynth) Render(ctx context.Context, midiPath, soundfont, wavPath string) error {
	if _, err := os.Stat(soundfont); err != nil {
		return fmt.Errorf("%w: %s", ErrSoundfontNotFound, soundfont)
	}

	cmd := exec.CommandContext(ctx, f.Binary, f.args(midiPath, soundfont, wavPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Synthesizing", "midi", midiPath, "soundfont", soundfont, "wav", wavPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("fluidsynth failed: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// InstrumentKey turns a display name like "Old video games" into the
// soundfont config key "old_video_games".
func InstrumentKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Soundfont picks the bank for instrument. Names with no configured bank are
// taken as a path to a custom soundfont.
func Soundfont(instrument string, fonts map[string]string) string {
	if path, ok := fonts[InstrumentKey(instrument)]; ok {
		return path
	}
	return instrument
}
