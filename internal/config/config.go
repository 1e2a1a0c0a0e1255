// Package config loads and saves the user configuration stored at
// ~/.taskvault/config.yaml.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

// FileName is the config file inside the home directory.
const FileName = "config.yaml"

// Config is the persisted user configuration.
type Config struct {
	ProjectsDir string        `yaml:"projects_dir,omitempty"`
	Projects    []string      `yaml:"projects,omitempty"`
	UserID      string        `yaml:"user_id,omitempty"`
	Logging     LoggingConfig `yaml:"logging,omitempty"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty"` // "json", "text"
}

// Home returns the taskvault home directory, honoring TASKVAULT_HOME.
func Home() (string, error) {
	if h := envString(EnvHome, ""); h != "" {
		return filepath.Abs(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewDirectoryError("~", err).
			WithSuggestion("Set " + EnvHome + " to choose a home directory explicitly")
	}
	return filepath.Join(home, ".taskvault"), nil
}

// DefaultPath returns the config file path inside Home.
func DefaultPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Default returns the configuration used when no file exists.
func Default(home string) *Config {
	return &Config{
		ProjectsDir: filepath.Join(home, "projects"),
		UserID:      os.Getenv("USER"),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "json",
		},
	}
}

// Load reads the config at path. A missing file yields Default for the
// file's directory. Environment overrides are not applied; see WithEnv.
func Load(path string) (*Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewFileReadError(path, err)
	}
	fsys := storage.NewOSFS("/")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if storage.IsNotExist(err) {
			return Default(filepath.Dir(path)), nil
		}
		return nil, errors.NewFileReadError(path, err)
	}

	cfg := Default(filepath.Dir(path))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	return cfg, nil
}

// Save writes the config atomically, creating its directory if needed.
func (c *Config) Save(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return errors.NewFileWriteError(path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.NewFileMarshalError("config", err)
	}

	fsys := storage.NewOSFS("/")
	if err := fsys.MkdirAll(filepath.Dir(path)); err != nil {
		return errors.NewDirectoryError(filepath.Dir(path), err)
	}
	if err := fsys.WriteFileAtomic(path, data); err != nil {
		return errors.NewFileWriteError(path, err)
	}
	return nil
}

// WithEnv returns a copy of c with environment overrides applied.
func (c *Config) WithEnv() *Config {
	out := *c
	out.Projects = append([]string(nil), c.Projects...)
	out.ProjectsDir = envString(EnvProjectsDir, c.ProjectsDir)
	out.UserID = envString(EnvUser, c.UserID)
	out.Logging.Level = envString(EnvLogLevel, c.Logging.Level)
	out.Logging.Format = envString(EnvLogFormat, c.Logging.Format)
	return &out
}

// AddProject registers a project file path. It reports false when the path
// was already registered.
func (c *Config) AddProject(path string) bool {
	for _, p := range c.Projects {
		if p == path {
			return false
		}
	}
	c.Projects = append(c.Projects, path)
	return true
}

// RemoveProject unregisters a project file path.
func (c *Config) RemoveProject(path string) bool {
	for i, p := range c.Projects {
		if p == path {
			c.Projects = append(c.Projects[:i], c.Projects[i+1:]...)
			return true
		}
	}
	return false
}
