// Package filelist builds the concrete set of files a run will analyze:
// recursive expansion of the requested roots, include-path validation and
// exclusion filtering. The resulting FileSet is built once per run and never
// mutated after dispatch begins.
package filelist

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/praveenmunagapati/cppcheck/pkg/logging"
)

// FileSet maps a normalized (slash-separated, cleaned) path to its size in
// bytes. Keys are unique; iteration order is defined by Paths().
type FileSet map[string]uint64

// Paths returns the file paths in sorted order. Dispatch order is derived
// from this, so it must be deterministic.
func (f FileSet) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalBytes returns the summed size of all files in the set.
func (f FileSet) TotalBytes() uint64 {
	var total uint64
	for _, size := range f {
		total += size
	}
	return total
}

// Normalize converts a path into the canonical FileSet key form.
func Normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// sourceExtensions are the file types accepted during recursive expansion,
// in addition to the markup extensions supplied by the engine library.
var sourceExtensions = map[string]bool{
	".cpp": true,
	".cxx": true,
	".cc":  true,
	".c":   true,
	".c++": true,
	".tpp": true,
	".txx": true,
}

// AcceptFile reports whether a path names an analyzable source file.
func AcceptFile(path string, markupExts map[string]bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return sourceExtensions[ext] || markupExts[ext]
}

// AddFiles expands path recursively into files, applying the markup
// extension predicate, and records them in the set. A path naming a regular
// file is added directly regardless of extension.
func AddFiles(files FileSet, path string, markupExts map[string]bool) error {
	logger := logging.GetLogger("filelist")

	info, err := os.Stat(path)
	if err != nil {
		logger.Debug().Str("path", path).Err(err).Msg("skipping unreadable path")
		return nil
	}

	if !info.IsDir() {
		files[Normalize(path)] = uint64(info.Size())
		return nil
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug().Str("path", p).Err(err).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AcceptFile(p, markupExts) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		files[Normalize(p)] = uint64(fi.Size())
		return nil
	})
}
