// Package config loads the mdpad YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxConfigSize limits config input to prevent memory exhaustion.
const MaxConfigSize = 1 << 20

// AppDirName is the directory under the user config dir holding configs
// and, by default, the workspace state.
const AppDirName = "mdpad"

// DefaultNamespace is the storage key the workspace is persisted under.
const DefaultNamespace = "markdown-editor-storage"

// Environment overrides.
const (
	EnvStorageDir = "MDPAD_STORAGE_DIR"
	EnvLogLevel   = "MDPAD_LOG_LEVEL"
)

// Font size limits accepted for editor.minFontSize and editor.maxFontSize.
const (
	FontSizeFloor   = 6
	FontSizeCeiling = 72
)

// Config holds all mdpad configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Editor   EditorConfig   `yaml:"editor"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// StorageConfig defines where the workspace is persisted.
type StorageConfig struct {
	Dir       string `yaml:"dir"`       // Empty = <user config dir>/mdpad/state
	Namespace string `yaml:"namespace"` // Storage key
}

// AutosaveConfig defines debounce behavior.
type AutosaveConfig struct {
	Delay string `yaml:"delay"` // Go duration, e.g. "1s", "750ms"
}

// EditorConfig defines editor limits.
type EditorConfig struct {
	MinFontSize int `yaml:"minFontSize"`
	MaxFontSize int `yaml:"maxFontSize"`
}

// ExportConfig defines export options.
type ExportConfig struct {
	Page      PageConfig `yaml:"page"`
	Timeout   string     `yaml:"timeout"`   // Go duration for PDF export
	AssetPath string     `yaml:"assetPath"` // Empty = embedded styles and templates
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Storage:  StorageConfig{Namespace: DefaultNamespace},
		Autosave: AutosaveConfig{Delay: "1s"},
		Editor:   EditorConfig{MinFontSize: 10, MaxFontSize: 24},
		Export: ExportConfig{
			Page:    PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
			Timeout: "30s",
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Storage.Namespace == "" || strings.ContainsAny(c.Storage.Namespace, "/\\\x00") {
		return fmt.Errorf("%w: storage.namespace %q", ErrInvalidValue, c.Storage.Namespace)
	}

	if _, err := parsePositiveDuration("autosave.delay", c.Autosave.Delay); err != nil {
		return err
	}
	if _, err := parsePositiveDuration("export.timeout", c.Export.Timeout); err != nil {
		return err
	}

	minSize, maxSize := c.Editor.MinFontSize, c.Editor.MaxFontSize
	if minSize < FontSizeFloor || maxSize > FontSizeCeiling || minSize > maxSize {
		return fmt.Errorf("%w: editor font size range %d..%d (must be within %d..%d)",
			ErrInvalidValue, minSize, maxSize, FontSizeFloor, FontSizeCeiling)
	}

	switch strings.ToLower(c.Export.Page.Size) {
	case "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: export.page.size %q (must be letter, a4, or legal)", ErrInvalidValue, c.Export.Page.Size)
	}
	switch strings.ToLower(c.Export.Page.Orientation) {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("%w: export.page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Export.Page.Orientation)
	}
	if c.Export.Page.Margin < 0.25 || c.Export.Page.Margin > 3.0 {
		return fmt.Errorf("%w: export.page.margin %.2f (must be between 0.25 and 3.0 inches)", ErrInvalidValue, c.Export.Page.Margin)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// AutosaveDelay returns the parsed autosave delay.
// Call Validate first; an invalid value yields zero.
func (c *Config) AutosaveDelay() time.Duration {
	d, _ := time.ParseDuration(c.Autosave.Delay)
	return d
}

// ExportTimeout returns the parsed PDF export timeout.
func (c *Config) ExportTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Export.Timeout)
	return d
}

// StorageDir returns the configured state directory, falling back to
// <user config dir>/mdpad/state.
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving state directory: %w", err)
	}
	return filepath.Join(base, AppDirName, "state"), nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvStorageDir); v != "" {
		c.Storage.Dir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig, rejecting unknown fields, and
// validates the result.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxConfigSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/mdpad/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
