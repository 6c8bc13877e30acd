package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/chordgen/markov"
	"github.com/jsphweid/chordgen/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes the mood models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		moods, err := store.Moods()
		if err != nil {
			return err
		}
		for _, mood := range moods {
			t, err := store.Table(mood)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), analyzeTable(t))
		}
		return nil
	},
}

type tableReport struct {
	mood        string
	numChords   int
	numContexts int
	numBigrams  int
	transitions uint64
	topChord    string
}

func analyzeTable(t *markov.Table) tableReport {
	report := tableReport{
		mood:        t.Mood,
		numChords:   len(t.Chords),
		numContexts: len(t.Contexts),
		numBigrams:  len(t.Bigrams),
	}
	for _, key := range util.SortedKeys(t.Contexts) {
		report.transitions += util.Sum(t.Contexts[key])
	}
	best := -1
	for i, n := range t.Unigrams {
		if n > best {
			best = n
			report.topChord = t.Chords[i]
		}
	}
	return report
}

func printReport(w io.Writer, r tableReport) {
	fmt.Fprintf(w, "%v:\n", r.mood)
	fmt.Fprintf(w, "  chords: %v\n", r.numChords)
	fmt.Fprintf(w, "  contexts: %v\n", r.numContexts)
	fmt.Fprintf(w, "  bigrams: %v\n", r.numBigrams)
	fmt.Fprintf(w, "  transitions: %v\n", r.transitions)
	fmt.Fprintf(w, "  most common chord: %v\n", r.topChord)
}
