package chord

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"C#":  "Db",
		"C#m": "Dbm",
		"D#":  "Eb",
		"F#m": "Gbm",
		"G#":  "Ab",
		"A#m": "Bbm",
		"Db":  "Db",
		"Am":  "Am",
		" E ": "E",
		"":    "",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Canonicalize(in))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := append([]string{"C#", "C#m", "D#", "D#m", "F#", "F#m", "G#", "G#m", "A#", "A#m"}, Options...)
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), in)
	}
}

func TestSharpAndFlatCanonicalizeTogether(t *testing.T) {
	pairs := [][2]string{{"C#", "Db"}, {"D#m", "Ebm"}, {"F#", "Gb"}, {"G#m", "Abm"}, {"A#", "Bb"}}
	for _, p := range pairs {
		assert.Equal(t, Canonicalize(p[0]), Canonicalize(p[1]))
	}
}

func TestOptionsHasTwentyFourCanonicalChords(t *testing.T) {
	assert := assert.New(t)
	assert.Len(Options, 24)
	seen := make(map[string]bool)
	for _, o := range Options {
		assert.Equal(o, Canonicalize(o))
		assert.NotEqual(Any, o)
		seen[o] = true
	}
	assert.Len(seen, 24)
}

func TestVocabularyMappingsAreInverses(t *testing.T) {
	v, err := NewVocabulary([]string{"C", "G", "Am", "F#", "Dbm"})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(5, v.Len())
	for i := 0; i < v.Len(); i++ {
		c, ok := v.Chord(i)
		assert.True(ok)
		j, ok := v.Index(c)
		assert.True(ok)
		assert.Equal(i, j)
	}
	assert.Equal([]string{"C", "G", "Am", "Gb", "Dbm"}, v.Chords())

	_, ok := v.Chord(5)
	assert.False(ok)
	_, ok = v.Chord(-1)
	assert.False(ok)
}

func TestVocabularyLooksUpSharpSpelling(t *testing.T) {
	v, err := NewVocabulary([]string{"Db", "Gbm"})
	require.NoError(t, err)
	i, ok := v.Index("C#")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	i, ok = v.Index("F#m")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestVocabularyRejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := NewVocabulary([]string{"C#", "Db"})
	assert.Error(t, err)
	_, err = NewVocabulary(nil)
	assert.Error(t, err)
}

func TestResolveKnownChord(t *testing.T) {
	v, _ := NewVocabulary([]string{"C", "Db"})
	rng := rand.New(rand.NewSource(1))
	c, i := v.Resolve("C#", rng)
	assert.Equal(t, "Db", c)
	assert.Equal(t, 1, i)
}

func TestResolveSubstitutesFromOptions(t *testing.T) {
	v, _ := NewVocabulary(Options)
	rng := rand.New(rand.NewSource(7))
	for _, sym := range []string{"Any", "", "Cmaj7", "H"} {
		c, i := v.Resolve(sym, rng)
		assert.Contains(t, Options, c)
		j, _ := v.Index(c)
		assert.Equal(t, j, i)
	}
}

func TestResolveOnlyPicksChordsInVocabulary(t *testing.T) {
	v, _ := NewVocabulary([]string{"Am", "C7"})
	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 20; n++ {
		c, i := v.Resolve("Any", rng)
		assert.Equal(t, "Am", c)
		assert.Equal(t, 0, i)
	}

	exotic, _ := NewVocabulary([]string{"C7", "G7"})
	c, _ := exotic.Resolve("Any", rng)
	assert.Contains(t, []string{"C7", "G7"}, c)
}
