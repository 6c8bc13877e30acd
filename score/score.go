package score

import (
	"fmt"
	"sort"

	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/model"
)

const (
	ChordsTrack = "Chords"
	BassTrack   = "Bass"
	LeadTrack   = "Lead"
)

// leadRhythm are the durations, in ticks, given to the first three pitches of
// each chord in the lead line.
var leadRhythm = []int{1, 1, 2}

// RepetitionStart is the tick where repetition r begins; every repetition
// reserves a whole bar grid regardless of progression length.
func RepetitionStart(r int) int {
	return r * constants.TicksPerRepetition
}

// SlotStart is the tick where chord i of repetition r begins.
func SlotStart(r, i int) int {
	return RepetitionStart(r) + i*constants.TicksPerChord
}

// Lead derives the melody for one chord, relative to its slot start.
// Chords with fewer pitches than the rhythm get no melody.
func Lead(chord []int) []model.NoteEvent {
	if len(chord) < len(leadRhythm) {
		return nil
	}
	sorted := make([]int, len(chord))
	copy(sorted, chord)
	sort.Ints(sorted)

	var res []model.NoteEvent
	offset := 0
	for i, d := range leadRhythm {
		res = append(res, model.NoteEvent{
			Pitch:    sorted[i] + 12,
			Start:    offset,
			Duration: d,
			Velocity: constants.LeadVelocity,
		})
		offset += d
	}
	return res
}

// Compose lays chords, optional bass and optional lead onto the tick grid.
// bass must hold one note per chord when opts.AddBass is set.
func Compose(chords [][]int, bass []int, opts model.RenderOptions) (model.Score, error) {
	if err := opts.Validate(); err != nil {
		return model.Score{}, err
	}
	if opts.AddBass && len(bass) != len(chords) {
		return model.Score{}, fmt.Errorf("got %v bass notes for %v chords", len(bass), len(chords))
	}

	s := model.Score{Tempo: opts.Tempo}

	chordTrack := model.Track{Name: ChordsTrack}
	for r := 0; r < opts.Repetitions; r++ {
		for i, c := range chords {
			for _, pitch := range c {
				chordTrack.Events = append(chordTrack.Events, model.NoteEvent{
					Pitch:    pitch,
					Start:    SlotStart(r, i),
					Duration: constants.TicksPerChord,
					Velocity: constants.ChordVelocity,
				})
			}
		}
	}
	s.Tracks = append(s.Tracks, chordTrack)

	if opts.AddBass {
		bassTrack := model.Track{Name: BassTrack}
		for r := 0; r < opts.Repetitions; r++ {
			for i, b := range bass {
				bassTrack.Events = append(bassTrack.Events, model.NoteEvent{
					Pitch:    b,
					Start:    SlotStart(r, i),
					Duration: constants.TicksPerChord,
					Velocity: constants.BassVelocity,
				})
			}
		}
		s.Tracks = append(s.Tracks, bassTrack)
	}

	if opts.AddLead {
		leadTrack := model.Track{Name: LeadTrack}
		for r := 0; r < opts.Repetitions; r++ {
			for i, c := range chords {
				for _, e := range Lead(c) {
					e.Start += SlotStart(r, i)
					leadTrack.Events = append(leadTrack.Events, e)
				}
			}
		}
		s.Tracks = append(s.Tracks, leadTrack)
	}

	for ti := range s.Tracks {
		for ei := range s.Tracks[ti].Events {
			s.Tracks[ti].Events[ei].Track = ti
		}
	}

	return s, nil
}

// Span is the tick after the last note ends.
func Span(s model.Score) int {
	var end int
	for _, t := range s.Tracks {
		for _, e := range t.Events {
			if e.Start+e.Duration > end {
				end = e.Start + e.Duration
			}
		}
	}
	return end
}
