package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/chordgen/constants"
	"github.com/spf13/viper"
)

var configDir string
var configFilePath string

// getConfigDir returns ~/.config/chordgen
func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chordgen"), nil
}

// Init loads defaults, the config file (if any) and CHORDGEN_* env overrides.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.yaml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	viper.Reset()
	setDefaults()

	viper.SetEnvPrefix("chordgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if _, err := os.Stat(configFilePath); err == nil {
		viper.SetConfigFile(configFilePath)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("models.dir", constants.GetModelDir())
	viper.SetDefault("sounds.dir", constants.GetSoundsDir())
	viper.SetDefault("work.dir", constants.GetWorkDir())

	viper.SetDefault("synth.binary", "fluidsynth")
	viper.SetDefault("synth.sample_rate", constants.SampleRate)
	viper.SetDefault("synth.gain", 0.0)
	viper.SetDefault("encoder.binary", "ffmpeg")
	viper.SetDefault("encoder.bitrate", "192k")

	sounds := constants.GetSoundsDir()
	viper.SetDefault("soundfonts.piano", filepath.Join(sounds, "GeneralUser_GS_v1.471.sf2"))
	viper.SetDefault("soundfonts.marimba", filepath.Join(sounds, "marimba-deadstroke.sf2"))
	viper.SetDefault("soundfonts.old_video_games", filepath.Join(sounds, "PICO-8_1.1.2.sf2"))

	viper.SetDefault("generate.max_retries", constants.MaxGenerateRetries)
	viper.SetDefault("generate.seed", 0)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.session_ttl", "1h")

	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.endpoint", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
}

// Watch calls onChange after the config file settles following a write.
func Watch(onChange func()) {
	debounced := debounce.New(500 * time.Millisecond)
	viper.OnConfigChange(func(e fsnotify.Event) {
		debounced(onChange)
	})
	viper.WatchConfig()
}

func Dir() string {
	return configDir
}

func FilePath() string {
	return configFilePath
}

// SessionPath is where the CLI keeps state between invocations.
func SessionPath() string {
	return filepath.Join(configDir, "session.yaml")
}

func GetString(key string) string {
	return viper.GetString(key)
}

func GetInt(key string) int {
	return viper.GetInt(key)
}

func GetInt64(key string) int64 {
	return viper.GetInt64(key)
}

func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func SetString(key, value string) {
	viper.Set(key, value)
}

// Soundfonts maps instrument keys (lowercase, underscores) to sound bank paths.
func Soundfonts() map[string]string {
	res := make(map[string]string)
	for _, key := range viper.AllKeys() {
		name, ok := strings.CutPrefix(key, "soundfonts.")
		if !ok {
			continue
		}
		res[name] = expandPath(viper.GetString(key))
	}
	return res
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
