// Package config loads optional defaults for the webcollect command from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config directory.
	AppName = "webcollect"
	// DefaultConfigFile is the file looked up inside the XDG config directory.
	DefaultConfigFile = "config.yaml"
)

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid output format: must be json, markdown or text")
	// ErrInvalidParallel is returned when parallel is not positive.
	ErrInvalidParallel = errors.New("invalid parallel: must be positive")
	// ErrInvalidTimeout is returned when timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)

// File mirrors the command-line flags. Nil fields are unset and leave the flag default alone.
type File struct {
	MaxDepth   *int           `yaml:"max_depth,omitempty"`
	MaxPages   *int           `yaml:"max_pages,omitempty"`
	SameDomain *bool          `yaml:"same_domain,omitempty"`
	Timeout    *time.Duration `yaml:"timeout,omitempty"`
	Delay      *time.Duration `yaml:"delay,omitempty"`
	UserAgent  *string        `yaml:"user_agent,omitempty"`
	Format     *string        `yaml:"format,omitempty"`
	Store      *string        `yaml:"store,omitempty"`
	Parallel   *int           `yaml:"parallel,omitempty"`
	Verbose    *bool          `yaml:"verbose,omitempty"`
}

// Load reads a configuration file. A missing file yields ErrConfigNotFound.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user or the XDG config dir
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &file, nil
}

// Resolve loads the explicit path when given, otherwise the XDG default.
// A missing explicit file is an error; a missing default file yields an empty File.
func Resolve(explicitPath string) (*File, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	file, err := Load(DefaultPath())
	if errors.Is(err, ErrConfigNotFound) {
		return &File{}, nil
	}

	return file, err
}

// DefaultPath returns the XDG location of the configuration file.
// On Linux: ~/.config/webcollect/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultConfigFile)
}

// Validate checks the values that are set.
func (f *File) Validate() error {
	if f.Format != nil && !ValidFormat(*f.Format) {
		return ErrInvalidFormat
	}

	if f.Parallel != nil && *f.Parallel < 1 {
		return ErrInvalidParallel
	}

	if f.Timeout != nil && *f.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case "json", "markdown", "text":
		return true
	default:
		return false
	}
}
