package chord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownChord = errors.New("unknown chord symbol")

// ErrUnknownPitch means chord spelling produced a name with no MIDI mapping.
var ErrUnknownPitch = errors.New("no MIDI number for pitch")

// one reference octave, C4 = 60
var noteMapping = map[string]int{
	"C": 60, "B#": 60,
	"Db": 61, "C#": 61,
	"D":  62,
	"Eb": 63, "D#": 63,
	"E": 64, "Fb": 64,
	"F": 65, "E#": 65,
	"Gb": 66, "F#": 66,
	"G":  67,
	"Ab": 68, "G#": 68,
	"A":  69,
	"Bb": 70, "A#": 70,
	"B": 71, "Cb": 71,
}

const letters = "CDEFGAB"

var naturalPitchClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

type quality struct {
	third int
	fifth int
}

var qualities = map[string]quality{
	"":  {third: 4, fifth: 7},
	"m": {third: 3, fifth: 7},
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

func parse(sym string) (letter byte, accidental int, q quality, err error) {
	if len(sym) == 0 {
		return 0, 0, q, fmt.Errorf("%w: empty", ErrUnknownChord)
	}
	letter = sym[0]
	if _, ok := naturalPitchClass[letter]; !ok {
		return 0, 0, q, fmt.Errorf("%w: %q", ErrUnknownChord, sym)
	}
	rest := sym[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case 'b':
			accidental = -1
			rest = rest[1:]
		case '#':
			accidental = 1
			rest = rest[1:]
		}
	}
	q, ok := qualities[rest]
	if !ok {
		return 0, 0, q, fmt.Errorf("%w: %q", ErrUnknownChord, sym)
	}
	return letter, accidental, q, nil
}

// spell names the pitch class target using the letter `steps` letters above
// the root, collapsing double accidentals to the plain flat-table name.
func spell(rootLetter byte, steps int, target int) string {
	li := strings.IndexByte(letters, rootLetter)
	l := letters[(li+steps)%len(letters)]
	d := mod12(target - naturalPitchClass[l])
	if d > 6 {
		d -= 12
	}
	switch d {
	case 0:
		return string(l)
	case -1:
		return string(l) + "b"
	case 1:
		return string(l) + "#"
	}
	return flatNames[target]
}

// Components returns the root, third and fifth of a major or minor chord.
func Components(sym string) ([]string, error) {
	letter, accidental, q, err := parse(sym)
	if err != nil {
		return nil, err
	}
	root := mod12(naturalPitchClass[letter] + accidental)
	rootName := string(letter)
	switch accidental {
	case -1:
		rootName += "b"
	case 1:
		rootName += "#"
	}
	return []string{
		rootName,
		spell(letter, 2, mod12(root+q.third)),
		spell(letter, 4, mod12(root+q.fifth)),
	}, nil
}

func MIDINumber(name string) (int, error) {
	n, ok := noteMapping[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	return n, nil
}

// ToMIDI maps every pitch name of a chord, failing on the first unknown one.
func ToMIDI(pitches []string) ([]int, error) {
	res := make([]int, 0, len(pitches))
	for _, p := range pitches {
		n, err := MIDINumber(p)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// BassNote is the chord's first pitch an octave down.
func BassNote(pitches []string) (int, error) {
	if len(pitches) == 0 {
		return 0, fmt.Errorf("%w: empty chord", ErrUnknownPitch)
	}
	n, err := MIDINumber(pitches[0])
	if err != nil {
		return 0, err
	}
	return n - 12, nil
}

// ExpandProgression turns chord symbols into MIDI chords and one bass note per chord.
func ExpandProgression(progression []string) (chords [][]int, bass []int, err error) {
	for _, sym := range progression {
		pitches, err := Components(sym)
		if err != nil {
			return nil, nil, err
		}
		notes, err := ToMIDI(pitches)
		if err != nil {
			return nil, nil, fmt.Errorf("chord %v: %w", sym, err)
		}
		b, err := BassNote(pitches)
		if err != nil {
			return nil, nil, fmt.Errorf("chord %v: %w", sym, err)
		}
		chords = append(chords, notes)
		bass = append(bass, b)
	}
	return chords, bass, nil
}
