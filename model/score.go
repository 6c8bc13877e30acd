package model

import "github.com/jsphweid/chordgen/constants"

type Track struct {
	Name   string
	Events []NoteEvent
}

// Score is built fresh per export request and only serialized afterwards.
// Ticks are quarter notes.
type Score struct {
	Tempo  int
	Tracks []Track
}

type RenderOptions struct {
	Tempo       int     `json:"tempo" yaml:"tempo"`
	Repetitions int     `json:"repetitions" yaml:"repetitions"`
	AddBass     bool    `json:"add_bass" yaml:"add_bass"`
	AddLead     bool    `json:"add_lead" yaml:"add_lead"`
	DrumStyle   string  `json:"drum_style" yaml:"drum_style"`
	DrumVolume  float64 `json:"drum_volume" yaml:"drum_volume"`
	Instrument  string  `json:"instrument" yaml:"instrument"`
}

// Validate rejects options the composer cannot lay out.
func (o RenderOptions) Validate() error {
	if o.Tempo <= 0 {
		return NewValidationError("tempo", "must be a positive number of beats per minute")
	}
	if o.Repetitions <= 0 {
		return NewValidationError("repetitions", "must be a positive number")
	}
	if o.DrumVolume < 0 || o.DrumVolume > 1 {
		return NewValidationError("drum_volume", "must be between 0 and 1")
	}
	return nil
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Tempo:       constants.DefaultTempo,
		Repetitions: constants.DefaultRepetitions,
		DrumStyle:   constants.DefaultDrumStyle,
		DrumVolume:  constants.DefaultDrumVolume,
		Instrument:  constants.DefaultInstrument,
	}
}
