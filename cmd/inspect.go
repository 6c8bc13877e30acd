package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect file.mid",
	Short: "Prints the tracks and notes of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		s, err := midi.Decode(parsed)
		if err != nil {
			return err
		}
		printScore(cmd.OutOrStdout(), s)
		return nil
	},
}

func printScore(w io.Writer, s model.Score) {
	header := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "tempo: %v bpm\n", s.Tempo)
	for i, t := range s.Tracks {
		fmt.Fprintf(w, "%v %v (%v notes)\n", header(fmt.Sprintf("track %v:", i)), t.Name, len(t.Events))
		for _, e := range t.Events {
			fmt.Fprintf(w, "  start %3d  dur %d  pitch %3d  vel %3d  ch %d\n", e.Start, e.Duration, e.Pitch, e.Velocity, e.Channel)
		}
	}
}
