package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds optional settings shared by updater runs. A missing settings
// file is not an error: every field has a usable default so the tool works
// with zero configuration.
type Config struct {
	// RegistryBaseURL is the base URL of the release registry API.
	RegistryBaseURL string `yaml:"registry_base_url"`
	// InstallDir is where new installs are placed when the binary
	// is not found on PATH. Empty means <home>/.local/bin.
	InstallDir string `yaml:"install_dir"`
	// Timeout is the duration for HTTP requests against the registry.
	Timeout time.Duration `yaml:"timeout"`
	// Binaries maps additional family binary names to "owner/repo"
	// repository identifiers, extending the built-in family table.
	Binaries map[string]string `yaml:"binaries"`
}

const (
	// DefaultConfigFilename is the default filename for updater settings,
	// resolved relative to the user's home directory.
	DefaultConfigFilename = ".mq-update.yaml"

	// DefaultRegistryBaseURL is the GitHub API endpoint serving release metadata.
	DefaultRegistryBaseURL = "https://api.github.com"

	// DefaultTimeout is the default duration for registry requests.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidRepository is returned when a family entry is not "owner/repo".
	errInvalidRepository = errors.New("repository must be in owner/repo form")
)

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		RegistryBaseURL: DefaultRegistryBaseURL,
		Timeout:         DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file yields the defaults; any other read error is reported.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}

		path = filepath.Join(home, DefaultConfigFilename)
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for anything left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RegistryBaseURL == "" {
		cfg.RegistryBaseURL = DefaultRegistryBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.RegistryBaseURL); err != nil {
		return fmt.Errorf("invalid registry base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	for name, repository := range cfg.Binaries {
		if !isValidRepository(repository) {
			return fmt.Errorf("binary %s: %q: %w", name, repository, errInvalidRepository)
		}
	}

	return nil
}

// isValidRepository reports whether the identifier splits into
// a non-empty owner and repository name.
func isValidRepository(repository string) bool {
	owner, name, ok := strings.Cut(repository, "/")

	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}
