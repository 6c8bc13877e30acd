package sample

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jsphweid/chordgen/audio"
	"github.com/jsphweid/chordgen/model"
)

// Style selects the percussion samples laid over rendered audio.
type Style int

const (
	None Style = iota
	Rock
	Electronic
)

// Kit names the sample files of one style.
type Kit struct {
	Kick  string
	Snare string
	HiHat string
}

// adding a style is a matter of adding rows here
var styles = []struct {
	style   Style
	name    string
	aliases []string
	kit     Kit
}{
	{None, "No", []string{"", "none", "off"}, Kit{}},
	{Rock, "Rock", nil, Kit{Kick: "rock_kick.wav", Snare: "rock_snare.wav", HiHat: "rock_hihat.wav"}},
	{Electronic, "Electronic", []string{"edm"}, Kit{Kick: "electronic_kick.wav", Snare: "electronic_snare.wav", HiHat: "electronic_hihat.wav"}},
}

func (s Style) String() string {
	for _, row := range styles {
		if row.style == s {
			return row.name
		}
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Kit returns the sample files for s; None has none.
func (s Style) Kit() (Kit, bool) {
	for _, row := range styles {
		if row.style == s && s != None {
			return row.kit, true
		}
	}
	return Kit{}, false
}

func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, row := range styles {
		if n == strings.ToLower(row.name) {
			return row.style, nil
		}
		for _, a := range row.aliases {
			if n == a {
				return row.style, nil
			}
		}
	}
	return None, model.NewValidationError("drum_style", fmt.Sprintf("unknown drum style %q", name))
}

func Names() []string {
	res := make([]string, 0, len(styles))
	for _, row := range styles {
		res = append(res, row.name)
	}
	return res
}

// Bank holds the decoded samples of a kit.
type Bank struct {
	Kick  *audio.Segment
	Snare *audio.Segment
	HiHat *audio.Segment
}

// Library loads banks from a directory of WAV files and keeps them.
type Library struct {
	dir   string
	mu    sync.Mutex
	banks map[Style]*Bank
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir, banks: make(map[Style]*Bank)}
}

// Load returns the bank for style, nil for None.
func (l *Library) Load(style Style) (*Bank, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.banks[style]; ok {
		return b, nil
	}

	b, err := Load(l.dir, style)
	if err != nil {
		return nil, err
	}
	if b != nil {
		l.banks[style] = b
	}
	return b, nil
}

// Load decodes the kit of style from dir. None has no bank.
func Load(dir string, style Style) (*Bank, error) {
	kit, ok := style.Kit()
	if !ok {
		return nil, nil
	}

	var b Bank
	files := []struct {
		name string
		dst  **audio.Segment
	}{
		{kit.Kick, &b.Kick},
		{kit.Snare, &b.Snare},
		{kit.HiHat, &b.HiHat},
	}
	for _, f := range files {
		seg, err := audio.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("could not load %v sample %v: %w", style, f.name, err)
		}
		*f.dst = seg
	}
	return &b, nil
}
