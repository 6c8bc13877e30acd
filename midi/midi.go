package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/score"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type rawEvent struct {
	tick     uint32
	off      bool
	channel  uint8
	key      uint8
	velocity uint8
}

func toTicks(quarters int) uint32 {
	return uint32(quarters * constants.TicksPerQuarter)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

func trackEvents(t model.Track) []rawEvent {
	var res []rawEvent
	for _, e := range t.Events {
		ch := uint8(e.Channel & 0x0f)
		key := clampByte(e.Pitch)
		res = append(res,
			rawEvent{tick: toTicks(e.Start), channel: ch, key: key, velocity: clampByte(e.Velocity)},
			rawEvent{tick: toTicks(e.Start + e.Duration), off: true, channel: ch, key: key},
		)
	}
	// note-offs go first so back-to-back notes of the same pitch retrigger
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].tick != res[j].tick {
			return res[i].tick < res[j].tick
		}
		return res[i].off && !res[j].off
	})
	return res
}

// Encode writes s as a format 1 SMF. Every track carries its own tempo at 0.
func Encode(s model.Score, w io.Writer) error {
	if s.Tempo <= 0 {
		return fmt.Errorf("score tempo must be positive, got %v", s.Tempo)
	}
	file := smf.New()
	file.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)

	end := toTicks(score.Span(s))
	for _, t := range s.Tracks {
		var track smf.Track
		if t.Name != "" {
			track.Add(0, smf.MetaTrackSequenceName(t.Name))
		}
		track.Add(0, smf.MetaTempo(float64(s.Tempo)))

		var last uint32
		for _, e := range trackEvents(t) {
			delta := e.tick - last
			last = e.tick
			if e.off {
				track.Add(delta, midi.NoteOff(e.channel, e.key))
			} else {
				track.Add(delta, midi.NoteOn(e.channel, e.key, e.velocity))
			}
		}
		track.Close(end - last)
		if err := file.Add(track); err != nil {
			return fmt.Errorf("could not add track %q: %w", t.Name, err)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

func WriteFile(s model.Score, path string) error {
	var buf bytes.Buffer
	if err := Encode(s, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write %v: %w", path, err)
	}
	return nil
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file: %w", err)
	}

	return res, nil
}

type noteKey struct {
	channel uint8
	key     uint8
}

// Decode turns an SMF back into a score, with times in quarter notes.
func Decode(file *smf.SMF) (model.Score, error) {
	mt, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return model.Score{}, errors.New("only metric time formats are supported")
	}
	resolution := uint32(mt)

	var s model.Score
	for ti, events := range file.Tracks {
		t := model.Track{}
		open := make(map[noteKey][]model.NoteEvent)
		var abs uint32
		for _, ev := range events {
			abs += ev.Delta
			var ch, key, vel uint8
			var bpm float64
			var name string
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				if s.Tempo == 0 {
					s.Tempo = int(bpm + 0.5)
				}
			case ev.Message.GetMetaTrackName(&name):
				t.Name = name
			case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				k := noteKey{ch, key}
				open[k] = append(open[k], model.NoteEvent{
					Pitch:    int(key),
					Start:    int(abs / resolution),
					Velocity: int(vel),
					Track:    ti,
					Channel:  int(ch),
				})
			case ev.Message.GetNoteOn(&ch, &key, &vel), ev.Message.GetNoteOff(&ch, &key, &vel):
				// note on with velocity 0 ends a note too
				k := noteKey{ch, key}
				if len(open[k]) == 0 {
					continue
				}
				n := open[k][0]
				open[k] = open[k][1:]
				n.Duration = int(abs/resolution) - n.Start
				t.Events = append(t.Events, n)
			}
		}
		sort.SliceStable(t.Events, func(i, j int) bool {
			return t.Events[i].Start < t.Events[j].Start
		})
		s.Tracks = append(s.Tracks, t)
	}
	return s, nil
}
