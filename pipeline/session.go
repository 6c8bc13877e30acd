package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jsphweid/chordgen/model"
	"gopkg.in/yaml.v3"
)

// Session is the state one user carries between pipeline calls. Calls take
// a Session and hand back the updated copy.
type Session struct {
	LastProgression model.Progression `yaml:"last_progression,omitempty" json:"last_progression,omitempty"`
	LastAudioPath   string            `yaml:"last_audio_path,omitempty" json:"last_audio_path,omitempty"`
}

// LoadSession reads a session file. A missing file is an empty session.
func LoadSession(path string) (Session, error) {
	var s Session
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func SaveSession(path string, s Session) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
