package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

func float32LE(samples []float64) ([]byte, error) {
	data := make([]float32, len(samples))
	for i, v := range samples {
		data[i] = float32(v)
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("could not convert samples: %w", err)
	}
	return buf.Bytes(), nil
}

// Play blocks until s has been played through the default output device or
// ctx is done. Only one playback context can exist per process.
func Play(ctx context.Context, s *Segment) error {
	data, err := float32LE(s.Samples)
	if err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   s.SampleRate,
		ChannelCount: s.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(bytes.NewReader(data))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
