package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/config"
	"github.com/jsphweid/chordgen/logger"
	"github.com/jsphweid/chordgen/markov"
	"github.com/jsphweid/chordgen/pipeline"
	"github.com/jsphweid/chordgen/sample"
	"github.com/jsphweid/chordgen/synth"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "chordgen",
	Short: "Generates and renders chord progressions",
	Long: `chordgen samples chord progressions from per-mood models, lays them out
as chords, bass and lead tracks, and renders them to audio with drums.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		logger.Init(verbose, config.GetString("log.level"), config.GetString("log.file"))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/chordgen/config.yaml)")
}

func newStore() *markov.Store {
	return markov.NewStore(config.GetString("models.dir"))
}

// NewPipeline wires a pipeline from the loaded configuration.
func NewPipeline(store *markov.Store) *pipeline.Pipeline {
	seed := config.GetInt64("generate.seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fluid := synth.NewFluidSynth(config.GetString("synth.binary"), config.GetInt("synth.sample_rate"))
	fluid.Gain = config.GetFloat64("synth.gain")
	return &pipeline.Pipeline{
		Store:      store,
		Synth:      fluid,
		Samples:    sample.NewLibrary(config.GetString("sounds.dir")),
		Encoder:    audio.NewMP3Encoder(config.GetString("encoder.binary"), config.GetString("encoder.bitrate")),
		Soundfonts: config.Soundfonts(),
		WorkDir:    config.GetString("work.dir"),
		Rand:       rand.New(rand.NewSource(seed)),
		MaxRetries: config.GetInt("generate.max_retries"),
	}
}

func loadSession() (pipeline.Session, error) {
	sess, err := pipeline.LoadSession(config.SessionPath())
	if err != nil {
		return sess, fmt.Errorf("could not read session: %w", err)
	}
	return sess, nil
}

func saveSession(sess pipeline.Session) error {
	if err := pipeline.SaveSession(config.SessionPath(), sess); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}
