package markov

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/generator"
)

// Table is a count-based next-chord model for one mood. Contexts are keyed
// like "0-0-3"; every counts slice is indexed by chord index.
type Table struct {
	Mood     string           `yaml:"mood"`
	Chords   []string         `yaml:"chords"`
	Contexts map[string][]int `yaml:"contexts"`
	Bigrams  map[int][]int    `yaml:"bigrams"`
	Unigrams []int            `yaml:"unigrams"`
}

func contextKey(ctx [generator.ContextSize]int) string {
	parts := make([]string, len(ctx))
	for i, v := range ctx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}

// Validate checks that every counts slice covers the whole vocabulary.
func (t *Table) Validate() error {
	n := len(t.Chords)
	if n == 0 {
		return fmt.Errorf("model %q has no chords", t.Mood)
	}
	check := func(name string, counts []int) error {
		if len(counts) != n {
			return fmt.Errorf("model %q: %v has %v counts, want %v", t.Mood, name, len(counts), n)
		}
		for _, c := range counts {
			if c < 0 {
				return fmt.Errorf("model %q: %v has a negative count", t.Mood, name)
			}
		}
		return nil
	}
	for k, counts := range t.Contexts {
		if err := check("context "+k, counts); err != nil {
			return err
		}
	}
	for k, counts := range t.Bigrams {
		if k < 0 || k >= n {
			return fmt.Errorf("model %q: bigram index %v out of range", t.Mood, k)
		}
		if err := check("bigram "+strconv.Itoa(k), counts); err != nil {
			return err
		}
	}
	if t.Unigrams != nil {
		return check("unigrams", t.Unigrams)
	}
	return nil
}

func (t *Table) Vocabulary() (*chord.Vocabulary, error) {
	return chord.NewVocabulary(t.Chords)
}

func normalize(counts []int) ([]float64, bool) {
	var total int
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, false
	}
	res := make([]float64, len(counts))
	for i, c := range counts {
		res[i] = float64(c) / float64(total)
	}
	return res, true
}

// Predict uses the exact context when it was seen, then the previous chord
// alone, then overall chord frequency, then a uniform distribution.
func (t *Table) Predict(ctx [generator.ContextSize]int) ([]float64, error) {
	n := len(t.Chords)
	for _, i := range ctx {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("context index %v out of range for %v chords", i, n)
		}
	}
	if dist, ok := normalize(t.Contexts[contextKey(ctx)]); ok {
		return dist, nil
	}
	if dist, ok := normalize(t.Bigrams[ctx[len(ctx)-1]]); ok {
		return dist, nil
	}
	if dist, ok := normalize(t.Unigrams); ok {
		return dist, nil
	}
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = 1 / float64(n)
	}
	return dist, nil
}

// ParseProgressions reads one space separated progression per line.
func ParseProgressions(r io.Reader) ([][]string, error) {
	var res [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		res = append(res, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read progressions: %w", err)
	}
	return res, nil
}

// Fit counts chord transitions. Prefixes shorter than a full context are
// counted zero-padded, the same way the generator queries them.
func Fit(mood string, progressions [][]string) (*Table, error) {
	t := &Table{
		Mood:     mood,
		Contexts: make(map[string][]int),
		Bigrams:  make(map[int][]int),
	}
	index := make(map[string]int)
	var sequences [][]int
	for _, p := range progressions {
		var seq []int
		for _, sym := range p {
			c := chord.Canonicalize(sym)
			i, ok := index[c]
			if !ok {
				i = len(t.Chords)
				index[c] = i
				t.Chords = append(t.Chords, c)
			}
			seq = append(seq, i)
		}
		sequences = append(sequences, seq)
	}
	n := len(t.Chords)
	if n == 0 {
		return nil, fmt.Errorf("no chords to fit mood %q", mood)
	}

	t.Unigrams = make([]int, n)
	bump := func(counts []int, i int) []int {
		if counts == nil {
			counts = make([]int, n)
		}
		counts[i]++
		return counts
	}
	for _, seq := range sequences {
		for i, c := range seq {
			t.Unigrams[c]++
			if i == 0 {
				continue
			}
			t.Bigrams[seq[i-1]] = bump(t.Bigrams[seq[i-1]], c)
			key := contextKey(generator.Context(seq[:i]))
			t.Contexts[key] = bump(t.Contexts[key], c)
		}
	}
	return t, nil
}
