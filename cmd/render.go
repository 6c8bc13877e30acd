package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/bucket"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/model"
	"github.com/spf13/cobra"
)

var (
	renderOpts   = model.DefaultRenderOptions()
	renderOut    string
	renderUpload string
)

func init() {
	addRenderFlags(renderCmd, &renderOpts)
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "Also export to this .wav or .mp3 file")
	renderCmd.Flags().StringVar(&renderUpload, "upload", "", "Upload the exported file to s3://bucket/key")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [chords...]",
	Short: "Renders a progression to audio",
	Long: `Renders the given chords, or the last generated progression, through the
synthesizer with optional drums. The result can be played back with play.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderUpload != "" && renderOut == "" {
			return fmt.Errorf("--upload needs --output")
		}

		sess, err := loadSession()
		if err != nil {
			return err
		}
		prog, err := progressionFor(args, sess)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p := NewPipeline(newStore())
		seg, sess, err := p.Render(ctx, sess, prog, renderOpts)
		if err != nil {
			return err
		}
		if err := saveSession(sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%v rendered (%.1fs)\n", formatProgression(prog), seg.DurationMs()/1000)

		if renderOut == "" {
			return nil
		}
		if err := p.ExportAudio(ctx, seg, renderOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %v\n", renderOut)

		if renderUpload == "" {
			return nil
		}
		up, err := bucket.NewUploader(config.GetString("s3.region"), config.GetString("s3.endpoint"))
		if err != nil {
			return err
		}
		location, err := up.Upload(ctx, renderOut, renderUpload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %v\n", location)
		return nil
	},
}
