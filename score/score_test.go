package score

import (
	"testing"

	"github.com/jsphweid/chordgen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cAmFG = [][]int{{60, 64, 67}, {69, 60, 64}, {65, 69, 60}, {67, 71, 62}}
var cAmFGBass = []int{48, 57, 53, 55}

func opts(reps int, bass, lead bool) model.RenderOptions {
	o := model.DefaultRenderOptions()
	o.Repetitions = reps
	o.AddBass = bass
	o.AddLead = lead
	return o
}

func TestComposeChordTiming(t *testing.T) {
	for _, n := range []int{1, 3, 4, 6} {
		chords := cAmFG
		for len(chords) < n {
			chords = append(chords, cAmFG[0])
		}
		chords = chords[:n]
		for _, reps := range []int{1, 2, 3} {
			s, err := Compose(chords, nil, opts(reps, false, false))
			require.NoError(t, err)
			require.Len(t, s.Tracks, 1)

			events := s.Tracks[0].Events
			require.Len(t, events, reps*n*3)
			idx := 0
			for k := 0; k < reps; k++ {
				for i := 0; i < n; i++ {
					for range chords[i] {
						assert.Equal(t, 16*k+4*i, events[idx].Start)
						assert.Equal(t, 4, events[idx].Duration)
						assert.Equal(t, 100, events[idx].Velocity)
						idx++
					}
				}
			}
		}
	}
}

func TestComposeWithBass(t *testing.T) {
	s, err := Compose(cAmFG, cAmFGBass, opts(2, true, false))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)
	assert.Equal(t, 120, s.Tempo)
	assert.Equal(t, ChordsTrack, s.Tracks[0].Name)
	assert.Equal(t, BassTrack, s.Tracks[1].Name)

	bass := s.Tracks[1].Events
	require.Len(t, bass, 8)
	for k := 0; k < 2; k++ {
		for i := 0; i < 4; i++ {
			e := bass[k*4+i]
			assert.Equal(t, cAmFGBass[i], e.Pitch)
			assert.Equal(t, 16*k+4*i, e.Start)
			assert.Equal(t, 4, e.Duration)
			assert.Equal(t, 100, e.Velocity)
			assert.Equal(t, 1, e.Track)
		}
	}

	// chords cover [0,32) with the second repetition starting at 16
	assert.Equal(t, 32, Span(s))
	assert.Equal(t, 16, s.Tracks[0].Events[12].Start)
}

func TestComposeWithLead(t *testing.T) {
	s, err := Compose(cAmFG, cAmFGBass, opts(2, true, true))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 3)
	lead := s.Tracks[2]
	assert.Equal(t, LeadTrack, lead.Name)
	require.Len(t, lead.Events, 2*4*3)

	// Am = 69 60 64 -> sorted 60 64 69 -> up an octave
	am := lead.Events[3:6]
	assert.Equal(t, []int{72, 76, 81}, []int{am[0].Pitch, am[1].Pitch, am[2].Pitch})
	assert.Equal(t, []int{4, 5, 6}, []int{am[0].Start, am[1].Start, am[2].Start})
	assert.Equal(t, []int{1, 1, 2}, []int{am[0].Duration, am[1].Duration, am[2].Duration})
	for _, e := range lead.Events {
		assert.Equal(t, 110, e.Velocity)
		assert.Equal(t, 2, e.Track)
	}

	second := lead.Events[12:15]
	assert.Equal(t, []int{16, 17, 18}, []int{second[0].Start, second[1].Start, second[2].Start})
}

func TestComposeLeadWithoutBassIsSecondTrack(t *testing.T) {
	s, err := Compose(cAmFG, nil, opts(1, false, true))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)
	assert.Equal(t, LeadTrack, s.Tracks[1].Name)
	assert.Equal(t, 1, s.Tracks[1].Events[0].Track)
}

func TestLeadSkipsSmallChords(t *testing.T) {
	assert.Empty(t, Lead([]int{60, 64}))
	assert.Empty(t, Lead(nil))

	s, err := Compose([][]int{{60, 67}, {60, 64, 67}}, nil, opts(1, false, true))
	require.NoError(t, err)
	lead := s.Tracks[1].Events
	require.Len(t, lead, 3)
	assert.Equal(t, 4, lead[0].Start)
}

func TestLeadUsesFirstThreeSortedPitches(t *testing.T) {
	notes := Lead([]int{67, 60, 70, 64})
	require.Len(t, notes, 3)
	assert.Equal(t, 72, notes[0].Pitch)
	assert.Equal(t, 76, notes[1].Pitch)
	assert.Equal(t, 79, notes[2].Pitch)
	assert.Equal(t, []int{0, 1, 2}, []int{notes[0].Start, notes[1].Start, notes[2].Start})
}

func TestComposeRejectsInvalidOptions(t *testing.T) {
	bad := []model.RenderOptions{
		{Tempo: 0, Repetitions: 1},
		{Tempo: -5, Repetitions: 1},
		{Tempo: 120, Repetitions: 0},
		{Tempo: 120, Repetitions: 1, DrumVolume: 1.5},
	}
	for _, o := range bad {
		_, err := Compose(cAmFG, nil, o)
		assert.True(t, model.IsValidationError(err), "%+v", o)
	}
}

func TestComposeRequiresBassPerChord(t *testing.T) {
	_, err := Compose(cAmFG, []int{48}, opts(1, true, false))
	assert.Error(t, err)
}
