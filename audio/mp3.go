package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// MP3Encoder shells out to ffmpeg with libmp3lame.
type MP3Encoder struct {
	Binary  string
	Bitrate string
}

func NewMP3Encoder(binary, bitrate string) *MP3Encoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	if bitrate == "" {
		bitrate = "192k"
	}
	return &MP3Encoder{Binary: binary, Bitrate: bitrate}
}

func (e *MP3Encoder) args(wavPath, mp3Path string) []string {
	return []string{
		"-i", wavPath,
		"-codec:a", "libmp3lame",
		"-b:a", e.Bitrate,
		"-loglevel", "error",
		"-y",
		mp3Path,
	}
}

// EncodeFile converts a WAV file into an MP3 file.
func (e *MP3Encoder) EncodeFile(ctx context.Context, wavPath, mp3Path string) error {
	cmd := exec.CommandContext(ctx, e.Binary, e.args(wavPath, mp3Path)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encoding failed: %v, stderr: %s", err, stderr.String())
	}
	return nil
}
