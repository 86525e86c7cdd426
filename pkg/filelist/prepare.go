package filelist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
	"github.com/praveenmunagapati/cppcheck/pkg/pathmatch"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
)

// StatusReporter receives the human-readable warnings emitted while the file
// set is prepared. The report sink satisfies this.
type StatusReporter interface {
	ReportOut(msg string)
}

// Prepare validates the configured include paths, expands the requested
// roots into a FileSet and applies the exclusion rules.
//
// Include paths that do not resolve to directories are removed from the
// active set with a warning (suppressed in quiet mode); this never aborts
// the run. Exclusion rules naming header files (.h, .hpp) are invalid and
// are stripped with a single combined warning; the targeted files stay in
// the set.
//
// Failure modes, both fatal to the run before any analysis:
//   - ErrNoInputFound: expansion yielded zero files
//   - ErrAllInputExcluded: exclusion removed every file
func Prepare(roots []string, s *settings.Settings, markupExts map[string]bool, status StatusReporter) (FileSet, error) {
	logger := logging.GetLogger("filelist")

	// Check that all include paths exist; drop the ones that don't.
	kept := s.IncludePaths[:0]
	for _, include := range s.IncludePaths {
		if isDirectory(include) {
			kept = append(kept, include)
			continue
		}
		if !s.Quiet {
			status.ReportOut(fmt.Sprintf("cppcheck: warning: Couldn't find path given by -I '%s'", include))
		}
		logger.Debug().Str("path", include).Msg("dropping missing include path")
	}
	s.IncludePaths = kept

	files := make(FileSet)
	for _, root := range roots {
		if err := AddFiles(files, filepath.FromSlash(root), markupExts); err != nil {
			return nil, cerr.Wrapf(err, cerr.ErrFileAccess, "failed to expand path %s", root)
		}
	}

	if len(files) == 0 {
		return nil, cerr.New(cerr.ErrNoInputFound, "cppcheck: error: could not find or open any of the paths given.")
	}

	// Header files cannot be excluded by filename; strip those rules and
	// warn once no matter how many there were.
	patterns := make([]string, 0, len(s.IgnoredPaths))
	headerRule := false
	for _, pattern := range s.IgnoredPaths {
		ext := strings.ToLower(filepath.Ext(pattern))
		if ext == ".h" || ext == ".hpp" {
			headerRule = true
			continue
		}
		patterns = append(patterns, pattern)
	}
	if headerRule {
		status.ReportOut("cppcheck: filename exclusion does not apply to header (.h and .hpp) files.")
		status.ReportOut("cppcheck: Please use --suppress for ignoring results from the header files.")
	}
	s.IgnoredPaths = patterns

	matcher := pathmatch.New(patterns, settings.CaseSensitivePaths())
	for path := range files {
		if matcher.Match(path) {
			delete(files, path)
		}
	}

	if len(files) == 0 {
		return nil, cerr.New(cerr.ErrAllInputExcluded, "cppcheck: error: no files to check - all paths ignored.")
	}

	logger.Info().Int("files", len(files)).Uint64("bytes", files.TotalBytes()).Msg("file set prepared")
	return files, nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	return err == nil && info.IsDir()
}
