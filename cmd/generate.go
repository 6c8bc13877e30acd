package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/constants"
	"github.com/spf13/cobra"
)

var (
	genMood  string
	genStart string
	genNum   int
)

func init() {
	generateCmd.Flags().StringVarP(&genMood, "mood", "m", "happy", "Mood model to sample from")
	generateCmd.Flags().StringVarP(&genStart, "start", "s", chord.Any, `Start chord, or "Any" for a random one`)
	generateCmd.Flags().IntVarP(&genNum, "num", "n", constants.DefaultNumChords, "Number of chords after the start chord")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a chord progression",
	Long:  `Generates a chord progression and remembers it for score, render and play.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}

		p := NewPipeline(newStore())
		prog, sess, err := p.Generate(sess, genMood, genStart, genNum)
		if err != nil {
			return err
		}
		if err := saveSession(sess); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), formatProgression(prog))
		return nil
	},
}
