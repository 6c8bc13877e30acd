package constants

import "os"

func GetModelDir() string {
	path := os.Getenv("MODELS_PATH")
	if path != "" {
		return path
	}
	return "./models"
}

func GetSoundsDir() string {
	path := os.Getenv("SOUNDS_PATH")
	if path != "" {
		return path
	}
	return "./sounds"
}

func GetWorkDir() string {
	path := os.Getenv("WORK_PATH")
	if path != "" {
		return path
	}
	return os.TempDir()
}

// score grid, in quarter-note ticks
const (
	TicksPerChord      = 4
	TicksPerRepetition = 16
)

const (
	ChordVelocity = 100
	BassVelocity  = 100
	LeadVelocity  = 110
)

// SMF resolution used when serializing a score
const TicksPerQuarter = 480

const SampleRate = 44100

const (
	DefaultNumChords   = 3
	DefaultTempo       = 120
	DefaultRepetitions = 1
	DefaultDrumVolume  = 0.5
	DefaultInstrument  = "Piano"
	DefaultDrumStyle   = "No"

	// caps the anti-repeat loop when a vocabulary cannot produce anything new
	MaxGenerateRetries = 16
)

// attenuation applied to drum samples at drum volume 0
const DrumAttenuationDb = 30
