//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/cmd"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/markov"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/pipeline"
	"github.com/jsphweid/chordgen/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Write code here to run before tests
	os.Setenv("CHORDGEN_MODELS_DIR", filepath.Join("..", "models"))
	if err := config.Init(filepath.Join(os.TempDir(), "chordgen-e2e", "config.yaml")); err != nil {
		panic(err.Error())
	}

	// Run tests
	exitVal := m.Run()

	os.Exit(exitVal)
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	p := cmd.NewPipeline(markov.NewStore(config.GetString("models.dir")))
	p.WorkDir = t.TempDir()
	return p
}

func requireTools(t *testing.T, p *pipeline.Pipeline) {
	if _, err := exec.LookPath(config.GetString("synth.binary")); err != nil {
		t.Skip("fluidsynth not installed")
	}
	if _, err := os.Stat(synth.Soundfont("Piano", p.Soundfonts)); err != nil {
		t.Skip("piano soundfont not available")
	}
}

func TestHappyScoreE2E(t *testing.T) {
	p := newPipeline(t)

	prog, sess, err := p.Generate(pipeline.Session{}, "happy", "C", 3)
	require.NoError(t, err)
	assert.Len(t, prog, 4)
	assert.Equal(t, "C", prog[0])

	opts := model.DefaultRenderOptions()
	opts.Repetitions = 2
	opts.AddBass = true
	path := filepath.Join(t.TempDir(), "happy.mid")
	_, err = p.ExportScore(sess.LastProgression, opts, path)
	require.NoError(t, err)

	parsed, err := midi.ReadMidiFile(path)
	require.NoError(t, err)
	sc, err := midi.Decode(parsed)
	require.NoError(t, err)

	require.Len(t, sc.Tracks, 2)
	assert.Equal(t, 120, sc.Tempo)
	chords := sc.Tracks[0].Events
	assert.Equal(t, 0, chords[0].Start)
	assert.Equal(t, 32, chords[len(chords)-1].Start+chords[len(chords)-1].Duration)
}

func TestRenderWithDrumsE2E(t *testing.T) {
	p := newPipeline(t)
	requireTools(t, p)

	opts := model.DefaultRenderOptions()
	opts.DrumStyle = "Rock"
	seg, sess, err := p.Render(context.Background(), pipeline.Session{}, model.Progression{"C", "Am", "F", "G"}, opts)
	require.NoError(t, err)
	assert.Greater(t, seg.Frames(), 0)
	assert.FileExists(t, sess.LastAudioPath)

	out := filepath.Join(t.TempDir(), "song.wav")
	require.NoError(t, p.ExportAudio(context.Background(), seg, out))
	back, err := audio.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, seg.Frames(), back.Frames())
}
