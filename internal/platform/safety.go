package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the sandbox directory, under os.TempDir, used for dev runs.
const DevDirName = "cell-dev"

// IsDevRun reports whether the process was built by `go run` or `go test`.
// Both build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDir returns the directory records are actually kept in.
// With forceTemp, a path outside the system temp dir is re-rooted under
// <tmp>/cell-dev/<base name>; paths already inside it are trusted as is.
func ResolveDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if filepath.IsAbs(clean) {
		rel, err := filepath.Rel(tempRoot, clean)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return clean
		}
	}

	sub := filepath.Base(clean)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}

	return filepath.Join(tempRoot, DevDirName, sub)
}
