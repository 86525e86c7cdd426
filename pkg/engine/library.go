package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
)

// Library is the engine's baseline configuration: which functions are known,
// which extensions are markup files and which of those are analyzed after
// the code files. Built up by loading one or more cfg files (std.cfg,
// posix.cfg, ...).
type Library struct {
	markupExts map[string]bool
	afterCode  map[string]bool
	functions  map[string]bool
	loaded     []string
}

// libraryConfig is the on-disk shape of a cfg file.
type libraryConfig struct {
	MarkupExtensions []string `koanf:"markup-extensions"`
	ProcessAfterCode []string `koanf:"process-after-code"`
	Functions        []string `koanf:"functions"`
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		markupExts: make(map[string]bool),
		afterCode:  make(map[string]bool),
		functions:  make(map[string]bool),
	}
}

// SearchPaths lists the directories probed for cfg files, in order: the
// explicit override, the directory next to the executable, then the XDG
// config dirs.
func SearchPaths(configDir string) []string {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), "cfg"))
	}
	for _, dir := range append([]string{xdg.ConfigHome}, xdg.ConfigDirs...) {
		paths = append(paths, filepath.Join(dir, "cppcheck", "cfg"))
	}
	return paths
}

// Load merges the named cfg file (e.g. "std" loads std.cfg) into the
// library. The returned error names the missing resource and the searched
// locations; the driver treats a failed baseline load as fatal.
func (l *Library) Load(name, configDir string) error {
	logger := logging.GetLogger("engine.library")

	filename := name + ".cfg"
	searched := SearchPaths(configDir)
	for _, dir := range searched {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		k := koanf.New(".")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return cerr.Wrapf(err, cerr.ErrBaselineConfig, "failed to parse %s", path)
		}
		var cfg libraryConfig
		if err := k.Unmarshal("library", &cfg); err != nil {
			return cerr.Wrapf(err, cerr.ErrBaselineConfig, "failed to parse %s", path)
		}

		for _, ext := range cfg.MarkupExtensions {
			l.markupExts[strings.ToLower(ext)] = true
		}
		for _, ext := range cfg.ProcessAfterCode {
			l.afterCode[strings.ToLower(ext)] = true
		}
		for _, fn := range cfg.Functions {
			l.functions[fn] = true
		}
		l.loaded = append(l.loaded, name)

		logger.Debug().Str("name", name).Str("path", path).Msg("loaded library config")
		return nil
	}

	return cerr.Newf(cerr.ErrBaselineConfig, "%s not found in any of: %s",
		filename, strings.Join(searched, ", "))
}

// AddMarkupExtension registers a markup extension programmatically, as an
// alternative to loading it from a cfg file.
func (l *Library) AddMarkupExtension(ext string, processAfterCode bool) {
	ext = strings.ToLower(ext)
	l.markupExts[ext] = true
	if processAfterCode {
		l.afterCode[ext] = true
	}
}

// Loaded returns the names of the cfg files merged so far.
func (l *Library) Loaded() []string {
	return l.loaded
}

// MarkupExtensions returns the markup predicate as an extension set, for the
// file set preparer.
func (l *Library) MarkupExtensions() map[string]bool {
	return l.markupExts
}

// MarkupFile reports whether the path is a markup file.
func (l *Library) MarkupFile(path string) bool {
	return l.markupExts[strings.ToLower(filepath.Ext(path))]
}

// ProcessMarkupAfterCode reports whether the markup file declares the
// process-after-code preference; such files are analyzed only after all code
// files, because their analysis may depend on artifacts produced there.
func (l *Library) ProcessMarkupAfterCode(path string) bool {
	return l.afterCode[strings.ToLower(filepath.Ext(path))]
}

// HasFunction reports whether the baseline configuration knows the function.
func (l *Library) HasFunction(name string) bool {
	return l.functions[name]
}
