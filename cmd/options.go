package cmd

import (
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/constants"
	"github.com/jsphweid/chordgen/model"
	"github.com/jsphweid/chordgen/pipeline"
	"github.com/jsphweid/chordgen/sample"
	"github.com/spf13/cobra"
)

var errNoProgression = errors.New("no chords given and no progression generated yet, run generate first")

func addScoreFlags(cmd *cobra.Command, opts *model.RenderOptions) {
	cmd.Flags().IntVar(&opts.Tempo, "tempo", constants.DefaultTempo, "Tempo in beats per minute")
	cmd.Flags().IntVar(&opts.Repetitions, "repetitions", constants.DefaultRepetitions, "Times the progression is played")
	cmd.Flags().BoolVar(&opts.AddBass, "bass", false, "Add a bass track")
	cmd.Flags().BoolVar(&opts.AddLead, "lead", false, "Add a lead melody track")
}

func addRenderFlags(cmd *cobra.Command, opts *model.RenderOptions) {
	addScoreFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.DrumStyle, "drums", constants.DefaultDrumStyle, "Drum style: "+strings.Join(sample.Names(), ", "))
	cmd.Flags().Float64Var(&opts.DrumVolume, "drum-volume", constants.DefaultDrumVolume, "Drum volume between 0 and 1")
	cmd.Flags().StringVar(&opts.Instrument, "instrument", constants.DefaultInstrument, `Piano, Marimba, "Old video games" or a soundfont path`)
}

// progressionFor uses the chords on the command line, or else the session's
// last generated progression.
func progressionFor(args []string, sess pipeline.Session) (model.Progression, error) {
	if len(args) > 0 {
		prog := make(model.Progression, len(args))
		for i, a := range args {
			prog[i] = chord.Canonicalize(a)
		}
		return prog, nil
	}
	if len(sess.LastProgression) == 0 {
		return nil, errNoProgression
	}
	return sess.LastProgression, nil
}

func formatProgression(prog model.Progression) string {
	bold := color.New(color.FgCyan, color.Bold).SprintFunc()
	parts := make([]string, len(prog))
	for i, c := range prog {
		parts[i] = bold(c)
	}
	return strings.Join(parts, " → ")
}
