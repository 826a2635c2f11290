package cmd

import (
	"os"
	"path/filepath"
)

const cacheDirFlagName = "cache-dir"

// defaultCacheDir returns "~/.forseti/cache", falling back to a relative
// path if the home directory cannot be resolved.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".forseti", "cache")
	}
	return filepath.Join(home, ".forseti", "cache")
}
