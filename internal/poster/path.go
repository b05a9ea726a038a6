package poster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SavePath returns <root>/<library>/<name>.png, creating the containing
// directory if absent. If that path is already taken it probes <name>_1,
// <name>_2, ... and returns the first unused candidate. No file is created;
// callers own the write.
func SavePath(root, library, name string) (string, error) {
	dir := filepath.Join(root, library)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".png")
	if notExists(path) {
		return path, nil
	}
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d.png", name, i))
		if notExists(candidate) {
			return candidate, nil
		}
	}
}

func notExists(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
