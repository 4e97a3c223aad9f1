package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/tack/internal/config"
)

// FindProject walks up from the working directory looking for .tack/boards.
// Returns "" if no project is found.
func FindProject() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return FindProjectFrom(cwd)
}

// FindProjectFrom walks up from startDir looking for .tack/boards.
func FindProjectFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		boards := filepath.Join(dir, config.DataDirName, config.BoardsDir)
		if info, err := os.Stat(boards); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
