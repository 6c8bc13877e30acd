package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jsphweid/chordgen/util"
)

// OutputBitDepth is what WAV files are written with.
const OutputBitDepth = 16

// full scale of OutputBitDepth, the same factor Decode divides by
const pcmScale = 1 << (OutputBitDepth - 1)

// Decode reads an integer PCM WAV stream.
func Decode(r io.ReadSeeker) (*Segment, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio buffer: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, errors.New("empty audio buffer")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %v", bitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = util.Clamp(float64(v)/scale, -1, 1)
	}

	return &Segment{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    samples,
	}, nil
}

func ReadFile(path string) (*Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", path, err)
	}
	return s, nil
}

// Encode writes s as 16-bit PCM.
func Encode(w io.WriteSeeker, s *Segment) error {
	if s.SampleRate <= 0 || s.Channels <= 0 {
		return fmt.Errorf("invalid audio format: %v Hz, %v channels", s.SampleRate, s.Channels)
	}
	data := make([]int, len(s.Samples))
	for i, v := range s.Samples {
		data[i] = int(util.Clamp(math.Round(v*pcmScale), math.MinInt16, math.MaxInt16))
	}

	encoder := wav.NewEncoder(w, s.SampleRate, OutputBitDepth, s.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: s.Channels,
			SampleRate:  s.SampleRate,
		},
		Data:           data,
		SourceBitDepth: OutputBitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("could not write samples: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("could not finish WAV file: %w", err)
	}
	return nil
}

func WriteFile(path string, s *Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
