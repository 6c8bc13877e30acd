package chord

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jsphweid/chordgen/logger"
)

// Any is the wildcard start chord meaning "pick one for me".
const Any = "Any"

// Options are the chords a missing start chord is substituted from.
var Options = []string{
	"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B",
	"Cm", "Dbm", "Dm", "Ebm", "Em", "Fm", "Gbm", "Gm", "Abm", "Am", "Bbm", "Bm",
}

var sharpToFlat = map[string]string{
	"C#": "Db",
	"D#": "Eb",
	"F#": "Gb",
	"G#": "Ab",
	"A#": "Bb",
}

// Canonicalize rewrites a sharp root to its flat spelling, keeping the quality.
func Canonicalize(sym string) string {
	sym = strings.TrimSpace(sym)
	if len(sym) < 2 {
		return sym
	}
	if flat, ok := sharpToFlat[sym[:2]]; ok {
		return flat + sym[2:]
	}
	return sym
}

type Vocabulary struct {
	chordToIndex map[string]int
	indexToChord []string
}

// NewVocabulary assigns dense indices to chords in the given order.
func NewVocabulary(chords []string) (*Vocabulary, error) {
	if len(chords) == 0 {
		return nil, errors.New("vocabulary needs at least one chord")
	}
	v := &Vocabulary{
		chordToIndex: make(map[string]int, len(chords)),
		indexToChord: make([]string, 0, len(chords)),
	}
	for _, c := range chords {
		c = Canonicalize(c)
		if _, ok := v.chordToIndex[c]; ok {
			return nil, fmt.Errorf("chord %q appears twice in vocabulary", c)
		}
		v.chordToIndex[c] = len(v.indexToChord)
		v.indexToChord = append(v.indexToChord, c)
	}
	return v, nil
}

func (v *Vocabulary) Len() int {
	return len(v.indexToChord)
}

func (v *Vocabulary) Index(sym string) (int, bool) {
	i, ok := v.chordToIndex[Canonicalize(sym)]
	return i, ok
}

func (v *Vocabulary) Chord(i int) (string, bool) {
	if i < 0 || i >= len(v.indexToChord) {
		return "", false
	}
	return v.indexToChord[i], true
}

// Chords returns the symbols in index order.
func (v *Vocabulary) Chords() []string {
	res := make([]string, len(v.indexToChord))
	copy(res, v.indexToChord)
	return res
}

// Resolve canonicalizes sym and returns it with its index. A chord the
// vocabulary does not know is replaced by a random pick from Options.
func (v *Vocabulary) Resolve(sym string, rng *rand.Rand) (string, int) {
	c := Canonicalize(sym)
	if i, ok := v.chordToIndex[c]; ok {
		return c, i
	}

	var candidates []string
	for _, o := range Options {
		if _, ok := v.chordToIndex[o]; ok {
			candidates = append(candidates, o)
		}
	}
	// a vocabulary trained on unusual chords may share nothing with Options
	if len(candidates) == 0 {
		candidates = v.indexToChord
	}

	sub := candidates[rng.Intn(len(candidates))]
	if c != Any && c != "" {
		logger.Debug("start chord not in vocabulary, substituting", "chord", c, "substitute", sub)
	}
	return sub, v.chordToIndex[sub]
}
