package model

// Progression is an ordered list of canonical chord symbols.
type Progression = []string

// Notes are MIDI note numbers of a single chord.
type Notes = []int

type NoteEvent struct {
	Pitch    int
	Start    int
	Duration int
	Velocity int
	Track    int
	Channel  int
}

// Equal reports whether two progressions hold the same chords in the same order.
func Equal(a, b Progression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
