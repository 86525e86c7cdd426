package settings

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
)

// LoadProject merges a project file (TOML or YAML, selected by extension)
// into the given settings. Command line flags applied after this call win.
func LoadProject(s *Settings, path string) error {
	logger := logging.GetLogger("settings")

	k := koanf.New(".")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml", "":
		parser = toml.Parser()
	default:
		return cerr.Newf(cerr.ErrConfigParse, "unsupported project file format: %s", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return cerr.Wrapf(err, cerr.ErrConfigLoad, "failed to load project file %s", path)
	}

	if err := k.Unmarshal("", s); err != nil {
		return cerr.Wrapf(err, cerr.ErrConfigParse, "failed to parse project file %s", path)
	}

	logger.Debug().Str("path", path).Msg("Loaded project file")
	return nil
}
