// Package enginemanager implements the host-side half of the protocol: it
// discovers engine binaries, spawns and owns their processes, and routes
// requests to them over NDJSON.
package enginemanager

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// EngineInfo describes an engine binary discovered on disk.
type EngineInfo struct {
	// ID is derived from the binary's file name (the part after
	// "forseti_engine_").
	ID string
	// BinaryPath is the absolute path to the executable.
	BinaryPath string
	// Version is the engine's version, if known at discovery time. Nothing
	// in discovery itself can populate this (no sidecar metadata file is
	// part of the on-disk convention), so it is always empty here; a caller
	// that learns a version later (e.g. from getCapabilities) may set it.
	Version string
	// FilePatterns lists the glob patterns this engine claims to handle.
	// Discovery has no way to know this ahead of getCapabilities either, so
	// it defaults to ["*"] per spec.
	FilePatterns []string
}

// DefaultFilePatterns is the file-pattern set assumed for a discovered
// engine until its real capabilities are known.
var DefaultFilePatterns = []string{"*"}

const binaryGlob = "*/bin/forseti_engine_*"

// DiscoverEngines scans cacheDir for engine binaries matching
// "<cacheDir>/*/bin/forseti_engine_*". Results are sorted by ID.
func DiscoverEngines(cacheDir string) ([]EngineInfo, error) {
	absCacheDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("enginemanager: resolve cache dir: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(absCacheDir), binaryGlob)
	if err != nil {
		return nil, fmt.Errorf("enginemanager: glob %s: %w", binaryGlob, err)
	}

	var infos []EngineInfo
	for _, m := range matches {
		id, ok := engineIDFromPath(m)
		if !ok {
			continue
		}
		infos = append(infos, EngineInfo{
			ID:           id,
			BinaryPath:   filepath.Join(absCacheDir, filepath.FromSlash(m)),
			FilePatterns: append([]string(nil), DefaultFilePatterns...),
		})
	}

	slices.SortFunc(infos, func(a, b EngineInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return infos, nil
}

const binaryPrefix = "forseti_engine_"

func engineIDFromPath(path string) (string, bool) {
	base := path[strings.LastIndex(path, "/")+1:]
	id, ok := strings.CutPrefix(base, binaryPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
