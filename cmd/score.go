package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/model"
	"github.com/spf13/cobra"
)

var (
	scoreOpts = model.DefaultRenderOptions()
	scoreOut  string
)

func init() {
	addScoreFlags(scoreCmd, &scoreOpts)
	scoreCmd.Flags().StringVarP(&scoreOut, "output", "o", "progression.mid", "MIDI file to write")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score [chords...]",
	Short: "Writes a progression as a MIDI file",
	Long:  `Writes the given chords, or the last generated progression, as a MIDI file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		prog, err := progressionFor(args, sess)
		if err != nil {
			return err
		}

		p := NewPipeline(newStore())
		sc, err := p.ExportScore(prog, scoreOpts, scoreOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v (%v tracks) → %v\n", formatProgression(prog), len(sc.Tracks), scoreOut)
		return nil
	},
}
