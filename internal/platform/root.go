package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// MarkerDir marks a directory as a cell data root.
const MarkerDir = ".cell"

// FindRoot looks upwards from startDir for a directory holding a .cell
// directory and returns its absolute path. Other project markers such as .git
// do not stop the search.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasMarker(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found from %s", abs)
}

func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerDir))
	return err == nil && info.IsDir()
}
