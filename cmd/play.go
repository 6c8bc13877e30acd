package cmd

import (
	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/logger"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [file.wav]",
	Short: "Plays a WAV file or the last render",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var seg *audio.Segment
		var err error
		if len(args) == 1 {
			seg, err = audio.ReadFile(args[0])
		} else {
			sess, serr := loadSession()
			if serr != nil {
				return serr
			}
			seg, err = NewPipeline(newStore()).LastAudio(sess)
		}
		if err != nil {
			return err
		}

		logger.Info("Playing", "seconds", seg.DurationMs()/1000)
		return audio.Play(cmd.Context(), seg)
	},
}
