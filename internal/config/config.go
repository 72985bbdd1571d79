package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// StarterFile is the name written by WriteStarter.
const StarterFile = "mdsite.toml"

const starterConfig = `# mdsite configuration
content  = "content"
static   = "static"
template = "template.html"
output   = "public"
patterns = ["**/*.md"]
exclude  = []
parallel = 4
`

func configFilenames() []string {
	return []string{StarterFile, ".mdsite.toml"}
}

func Load(configPath string) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	absConfigPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, oops.Wrapf(err, "resolving absolute config path")
	}

	cfg := &Config{}
	k := koanf.New(".")

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix config structure to match the mdsite schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	cfg.resolvePaths()

	return cfg, nil
}

// LoadOrDefault loads the config at configPath, or the one found by walking up
// from the working directory. When no config file exists anywhere it falls
// back to Default rooted at the working directory.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		return Load(configPath)
	}

	foundPath, err := FindConfigFile()
	if err == nil {
		return Load(foundPath)
	}

	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	dir, wdErr := os.Getwd()
	if wdErr != nil {
		return nil, oops.Wrapf(wdErr, "getting working directory")
	}

	return Default(dir), nil
}

// Default returns the default configuration rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{ConfigDir: dir}
	cfg.ApplyDefaults()
	cfg.resolvePaths()

	return cfg
}

// ErrConfigNotFound is wrapped by FindConfigFile when no config file exists.
var ErrConfigNotFound = errors.New("config file not found")

func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", findErr
		}

		if found {
			return foundPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", oops.
				Code("CONFIG_NOT_FOUND").
				Hint("Run 'mdsite init' to create a config file").
				Wrapf(ErrConfigNotFound, "no mdsite.toml or .mdsite.toml found in any parent directory")
		}

		dir = parentDir
	}
}

// WriteStarter writes a starter config into dir. An existing file is only
// replaced when force is set.
func WriteStarter(dir string, force bool) (string, error) {
	path := filepath.Join(dir, StarterFile)

	if _, err := os.Stat(path); err == nil && !force {
		return "", oops.
			Code("CONFIG_EXISTS").
			With("path", path).
			Hint("Pass --force to overwrite it").
			Errorf("config file %q already exists", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", oops.Wrapf(err, "checking config file %q", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing starter config")
	}

	return path, nil
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code("CONFIG_NOT_FOUND").
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}
