package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/chordgen/markov"
	"github.com/spf13/cobra"
)

var fitMood string

func init() {
	fitCmd.Flags().StringVarP(&fitMood, "mood", "m", "", "Mood name for the fitted model")
	fitCmd.MarkFlagRequired("mood")
	rootCmd.AddCommand(fitCmd)
}

var fitCmd = &cobra.Command{
	Use:   "fit dataset.txt",
	Short: "Builds a mood model from a file of progressions",
	Long:  `Counts chord transitions in a file with one space separated progression per line.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		progressions, err := markov.ParseProgressions(f)
		if err != nil {
			return err
		}
		t, err := markov.Fit(fitMood, progressions)
		if err != nil {
			return err
		}
		path, err := newStore().Save(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Fitted %v from %v progressions (%v chords) → %v\n", fitMood, len(progressions), len(t.Chords), path)
		return nil
	},
}
