package markov

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jsphweid/chordgen/chord"
	"github.com/jsphweid/chordgen/generator"
	"gopkg.in/yaml.v3"
)

var ErrUnknownMood = errors.New("unknown mood")

const ext = ".yaml"

// Store loads per-mood tables from a directory and caches them.
type Store struct {
	dir    string
	mu     sync.Mutex
	tables map[string]*Table
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, tables: make(map[string]*Table)}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(mood string) string {
	return filepath.Join(s.dir, mood+ext)
}

func validMood(mood string) bool {
	return mood != "" && !strings.ContainsAny(mood, `/\.`)
}

func (s *Store) Table(mood string) (*Table, error) {
	if !validMood(mood) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[mood]; ok {
		return t, nil
	}

	f, err := os.Open(s.Path(mood))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open model for %q: %w", mood, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not load model for %q: %w", mood, err)
	}
	s.tables[mood] = t
	return t, nil
}

// Load returns the vocabulary and predictor for mood.
func (s *Store) Load(mood string) (*chord.Vocabulary, generator.Predictor, error) {
	t, err := s.Table(mood)
	if err != nil {
		return nil, nil, err
	}
	v, err := t.Vocabulary()
	if err != nil {
		return nil, nil, err
	}
	return v, t, nil
}

// Moods lists the moods with a model file, sorted.
func (s *Store) Moods() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read models dir: %w", err)
	}
	var res []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		res = append(res, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(res)
	return res, nil
}

// Reset drops cached tables so the next Load rereads them.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]*Table)
}

func Read(r io.Reader) (*Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func Write(w io.Writer, t *Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes t into the store directory under its mood.
func (s *Store) Save(t *Table) (string, error) {
	if !validMood(t.Mood) {
		return "", fmt.Errorf("invalid mood name %q", t.Mood)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	path := s.Path(t.Mood)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := Write(f, t); err != nil {
		return "", fmt.Errorf("could not write model %v: %w", path, err)
	}

	s.mu.Lock()
	delete(s.tables, t.Mood)
	s.mu.Unlock()
	return path, nil
}
