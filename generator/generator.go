package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/model"
)

// ContextSize is how many previous chord indices the model sees.
const ContextSize = 3

// Predictor returns a probability distribution over the vocabulary given the
// last ContextSize chord indices.
type Predictor interface {
	Predict(context [ContextSize]int) ([]float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(context [ContextSize]int) ([]float64, error)

func (f PredictorFunc) Predict(context [ContextSize]int) ([]float64, error) {
	return f(context)
}

var ErrBadDistribution = errors.New("model returned an unusable distribution")

type Generator struct {
	vocab     *chord.Vocabulary
	predictor Predictor
	rng       *rand.Rand
}

func New(vocab *chord.Vocabulary, predictor Predictor, rng *rand.Rand) *Generator {
	return &Generator{vocab: vocab, predictor: predictor, rng: rng}
}

// Context takes the last ContextSize indices of sequence, left-padded with zeros.
func Context(sequence []int) [ContextSize]int {
	var ctx [ContextSize]int
	if len(sequence) > ContextSize {
		sequence = sequence[len(sequence)-ContextSize:]
	}
	copy(ctx[ContextSize-len(sequence):], sequence)
	return ctx
}

// Generate extends start by numChords sampled chords.
func (g *Generator) Generate(start string, numChords int) (model.Progression, error) {
	if numChords < 0 {
		return nil, fmt.Errorf("number of chords must not be negative, got %v", numChords)
	}

	startChord, startIndex := g.vocab.Resolve(start, g.rng)
	sequence := make([]int, 1, numChords+1)
	sequence[0] = startIndex
	progression := make(model.Progression, 1, numChords+1)
	progression[0] = startChord

	for i := 0; i < numChords; i++ {
		dist, err := g.predictor.Predict(Context(sequence))
		if err != nil {
			return nil, fmt.Errorf("model prediction failed: %w", err)
		}
		next, err := g.sample(dist)
		if err != nil {
			return nil, err
		}
		c, _ := g.vocab.Chord(next)
		sequence = append(sequence, next)
		progression = append(progression, c)
	}

	return progression, nil
}

// sample draws an index weighted by dist; weights need not sum to exactly 1.
func (g *Generator) sample(dist []float64) (int, error) {
	if len(dist) != g.vocab.Len() {
		return 0, fmt.Errorf("%w: %v probabilities for %v chords", ErrBadDistribution, len(dist), g.vocab.Len())
	}
	var total float64
	for i, p := range dist {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, fmt.Errorf("%w: non-finite probability at %v", ErrBadDistribution, i)
		}
		if p < 0 {
			return 0, fmt.Errorf("%w: negative probability at %v", ErrBadDistribution, i)
		}
		total += p
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: all probabilities are zero", ErrBadDistribution)
	}

	r := g.rng.Float64() * total
	last := 0
	for i, p := range dist {
		if p == 0 {
			continue
		}
		last = i
		if r < p {
			return i, nil
		}
		r -= p
	}
	// float rounding can leave r just above the final weight
	return last, nil
}
