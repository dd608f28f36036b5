package appdir

import (
	"os"
	"path/filepath"
	"sync"
)

const dirName = ".blockmodes"

var (
	appDirOnce  sync.Once
	appDirCache string
)

// AppDir returns ~/.blockmodes, or ./.blockmodes when no home directory is
// available. BLOCKMODES_HOME overrides the location.
func AppDir() string {
	appDirOnce.Do(func() {
		if dir := os.Getenv("BLOCKMODES_HOME"); dir != "" {
			appDirCache = dir
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			appDirCache = dirName
			return
		}
		appDirCache = filepath.Join(home, dirName)
	})
	return appDirCache
}

// Ensure creates the application directory if needed and returns its path.
func Ensure() (string, error) {
	dir := AppDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path joins a bare file name onto the application directory. Names with
// any directory component are returned unchanged.
func Path(name string) string {
	if filepath.Base(name) != name {
		return name
	}
	return filepath.Join(AppDir(), name)
}
