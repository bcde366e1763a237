package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inonjs/ignite/internal/foundation/errors"
)

// FileNames are the configuration file names Discover looks for, in order.
var FileNames = []string{".ignite.yml", ".ignite.yaml"}

// Load reads the configuration file at path, expands ${VAR} references, applies
// defaults and validates the result. Relative src and dst are taken relative to the
// file's directory.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration path").
			WithContext("path", path).
			Build()
	}
	dir := filepath.Dir(abs)
	loadEnvFiles(dir)

	// #nosec G304 -- the configuration path is chosen by the user
	data, err := os.ReadFile(abs)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("path", abs).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			WithContext("path", abs).
			Fatal().
			Build()
	}

	cfg, err := Parse(data, dir)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", abs)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration content. baseDir anchors relative src and dst; an
// empty baseDir leaves them as written.
func Parse(data []byte, baseDir string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
			Fatal().
			UserAction().
			Build()
	}
	applyDefaults(&cfg, baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover looks for a configuration file in start and each of its parents.
// ok is false when none exists.
func Discover(start string) (path string, ok bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
