package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/drums"
	"github.com/jsphweid/chordgen/file"
	"github.com/jsphweid/chordgen/generator"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/metrics"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/sample"
	"github.com/jsphweid/chordgen/score"
	"github.com/jsphweid/chordgen/synth"
)

var ErrNothingRendered = errors.New("nothing has been rendered yet")

// ModelStore hands out the vocabulary and predictor of a mood.
type ModelStore interface {
	Load(mood string) (*chord.Vocabulary, generator.Predictor, error)
}

type Pipeline struct {
	Store      ModelStore
	Synth      synth.Synthesizer
	Samples    *sample.Library
	Encoder    *audio.MP3Encoder
	Soundfonts map[string]string
	WorkDir    string
	Rand       *rand.Rand
	MaxRetries int

	// guards Rand
	mu sync.Mutex
}

// Request is everything one end to end run needs. When Progression is set
// generation is skipped.
type Request struct {
	Mood        string
	StartChord  string
	NumChords   int
	Progression model.Progression
	Options     model.RenderOptions
}

type Result struct {
	Progression model.Progression
	Score       model.Score
	Audio       *audio.Segment
	AudioPath   string
}

// Generate produces a progression of numChords chords after start, discarding
// candidates equal to the session's last progression up to MaxRetries times.
func (p *Pipeline) Generate(sess Session, mood, start string, numChords int) (model.Progression, Session, error) {
	vocab, predictor, err := p.Store.Load(mood)
	if err != nil {
		return nil, sess, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	gen := generator.New(vocab, predictor, p.Rand)

	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var prog model.Progression
	for attempt := 0; attempt < attempts; attempt++ {
		prog, err = gen.Generate(start, numChords)
		if err != nil {
			return nil, sess, err
		}
		if !model.Equal(prog, sess.LastProgression) {
			metrics.RecordGeneration(mood, attempt)
			sess.LastProgression = prog
			return prog, sess, nil
		}
		logger.Debug("Discarding repeated progression", "progression", prog, "attempt", attempt+1)
	}

	logger.Warn("Could not avoid repeating the last progression", "mood", mood, "attempts", attempts)
	metrics.RecordGeneration(mood, attempts-1)
	sess.LastProgression = prog
	return prog, sess, nil
}

func canonical(prog model.Progression) model.Progression {
	res := make(model.Progression, len(prog))
	for i, c := range prog {
		res[i] = chord.Canonicalize(c)
	}
	return res
}

func validate(opts model.RenderOptions) error {
	err := opts.Validate()
	var v *model.ValidationError
	if errors.As(err, &v) {
		metrics.RecordValidationFailure(v.Field)
	}
	return err
}

// Compose expands prog and lays it out as a score.
func (p *Pipeline) Compose(prog model.Progression, opts model.RenderOptions) (model.Score, error) {
	if err := validate(opts); err != nil {
		return model.Score{}, err
	}
	if len(prog) == 0 {
		return model.Score{}, model.NewValidationError("progression", "must contain at least one chord")
	}
	chords, bass, err := chord.ExpandProgression(canonical(prog))
	if err != nil {
		return model.Score{}, err
	}
	return score.Compose(chords, bass, opts)
}

func (p *Pipeline) ExportScore(prog model.Progression, opts model.RenderOptions, path string) (model.Score, error) {
	sc, err := p.Compose(prog, opts)
	if err != nil {
		return model.Score{}, err
	}
	if err := midi.WriteFile(sc, path); err != nil {
		return model.Score{}, err
	}
	logger.Info("Wrote score", "path", path, "tracks", len(sc.Tracks))
	return sc, nil
}

func drumStyle(opts model.RenderOptions) (sample.Style, error) {
	style, err := sample.ParseStyle(opts.DrumStyle)
	if err != nil {
		metrics.RecordValidationFailure("drum_style")
	}
	return style, err
}

// Render synthesizes prog and lays drums over it. The rendered file is kept
// in WorkDir and becomes the session's last audio only when every step
// succeeds.
func (p *Pipeline) Render(ctx context.Context, sess Session, prog model.Progression, opts model.RenderOptions) (*audio.Segment, Session, error) {
	style, err := drumStyle(opts)
	if err != nil {
		return nil, sess, err
	}
	sc, err := p.Compose(prog, opts)
	if err != nil {
		return nil, sess, err
	}
	return p.render(ctx, sess, sc, opts, style)
}

func (p *Pipeline) render(ctx context.Context, sess Session, sc model.Score, opts model.RenderOptions, style sample.Style) (*audio.Segment, Session, error) {
	if err := os.MkdirAll(p.WorkDir, 0700); err != nil {
		return nil, sess, err
	}
	midiPath := file.TempPath(p.WorkDir, ".mid")
	synthPath := file.TempPath(p.WorkDir, ".synth.wav")
	defer file.Remove(midiPath, synthPath)

	if err := midi.WriteFile(sc, midiPath); err != nil {
		metrics.RecordRenderFailure("score")
		return nil, sess, err
	}

	soundfont := synth.Soundfont(opts.Instrument, p.Soundfonts)
	start := time.Now()
	if err := p.Synth.Render(ctx, midiPath, soundfont, synthPath); err != nil {
		metrics.RecordRenderFailure("synth")
		return nil, sess, fmt.Errorf("synthesis failed: %w", err)
	}
	metrics.ObserveStage("synth", start)

	seg, err := audio.ReadFile(synthPath)
	if err != nil {
		metrics.RecordRenderFailure("decode")
		return nil, sess, fmt.Errorf("could not read synthesized audio: %w", err)
	}

	start = time.Now()
	seg, err = drums.Apply(seg, p.Samples, style, opts.Tempo, opts.DrumVolume)
	if err != nil {
		metrics.RecordRenderFailure("drums")
		return nil, sess, err
	}
	metrics.ObserveStage("drums", start)

	out := file.TempPath(p.WorkDir, ".wav")
	if style == sample.None {
		// nothing was mixed in, keep the synthesizer's file as it is
		if err := os.Rename(synthPath, out); err != nil {
			metrics.RecordRenderFailure("write")
			return nil, sess, err
		}
	} else if err := audio.WriteFile(out, seg); err != nil {
		metrics.RecordRenderFailure("write")
		return nil, sess, err
	}

	logger.Debug("Rendered", "path", out, "ms", seg.DurationMs(), "drums", style)
	p.discard(sess.LastAudioPath, out)
	sess.LastAudioPath = out
	return seg, sess, nil
}

// discard removes a render that has been replaced. Only files this pipeline
// wrote into WorkDir are touched.
func (p *Pipeline) discard(prev, current string) {
	if prev == "" || prev == current {
		return
	}
	if filepath.Dir(prev) != filepath.Clean(p.WorkDir) || !file.IsTemp(prev) {
		return
	}
	file.Remove(prev)
}

// Discard removes the session's rendered file, for sessions that are being
// dropped.
func (p *Pipeline) Discard(sess Session) {
	p.discard(sess.LastAudioPath, "")
}

// ExportAudio writes seg as WAV or MP3, chosen by the extension of path.
func (p *Pipeline) ExportAudio(ctx context.Context, seg *audio.Segment, path string) error {
	switch ext := file.Ext(path); ext {
	case ".wav":
		return audio.WriteFile(path, seg)
	case ".mp3":
		tmp := file.TempPath(p.WorkDir, ".wav")
		defer file.Remove(tmp)
		if err := audio.WriteFile(tmp, seg); err != nil {
			return err
		}
		encoder := p.Encoder
		if encoder == nil {
			encoder = audio.NewMP3Encoder("", "")
		}
		start := time.Now()
		if err := encoder.EncodeFile(ctx, tmp, path); err != nil {
			file.Remove(path)
			metrics.RecordRenderFailure("encode")
			return err
		}
		metrics.ObserveStage("encode", start)
		return nil
	default:
		return model.NewValidationError("format", fmt.Sprintf("cannot export audio as %q, use .wav or .mp3", ext))
	}
}

// LastAudio decodes the session's last rendered file.
func (p *Pipeline) LastAudio(sess Session) (*audio.Segment, error) {
	if sess.LastAudioPath == "" {
		return nil, ErrNothingRendered
	}
	return audio.ReadFile(sess.LastAudioPath)
}

// Run goes from options to progression, score and audio in one call.
func (p *Pipeline) Run(ctx context.Context, sess Session, req Request) (Result, Session, error) {
	style, err := drumStyle(req.Options)
	if err != nil {
		return Result{}, sess, err
	}
	if err := validate(req.Options); err != nil {
		return Result{}, sess, err
	}

	prog := canonical(req.Progression)
	if len(prog) == 0 {
		prog, sess, err = p.Generate(sess, req.Mood, req.StartChord, req.NumChords)
		if err != nil {
			return Result{}, sess, err
		}
	}

	sc, err := p.Compose(prog, req.Options)
	if err != nil {
		return Result{}, sess, err
	}
	seg, sess, err := p.render(ctx, sess, sc, req.Options, style)
	if err != nil {
		return Result{}, sess, err
	}
	return Result{Progression: prog, Score: sc, Audio: seg, AudioPath: sess.LastAudioPath}, sess, nil
}
