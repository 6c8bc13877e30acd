package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/chordgen/logger"
)

const prefix = "chordgen-"

// TempPath returns a fresh path in dir that no other render will use.
func TempPath(dir, suffix string) string {
	return filepath.Join(dir, prefix+uuid.NewString()+suffix)
}

// IsTemp reports whether path was made by TempPath.
func IsTemp(path string) bool {
	return strings.HasPrefix(filepath.Base(path), prefix)
}

// Ext is the lowercase extension of path, dot included.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Remove deletes paths, ignoring ones that are already gone.
func Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Could not remove file", "path", p, "error", err)
		}
	}
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
