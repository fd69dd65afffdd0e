package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the hitcmd configuration
type Config struct {
	MaxDepth  int               `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`
	TempDir   string            `json:"tempDir,omitempty" yaml:"tempDir,omitempty"`
	EnvFile   string            `json:"envFile,omitempty" yaml:"envFile,omitempty"`
	HistoryDB string            `json:"historyDB,omitempty" yaml:"historyDB,omitempty"`
	LogLevel  string            `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string            `json:"logFormat,omitempty" yaml:"logFormat,omitempty"` // text or json
	NoColor   *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Templates map[string]string `json:"templates,omitempty" yaml:"templates,omitempty"` // named command templates
	Record    RecordConfig      `json:"record,omitempty" yaml:"record,omitempty"`
}

// RecordConfig holds the defaults of the recording proxy.
type RecordConfig struct {
	Port      int      `json:"port,omitempty" yaml:"port,omitempty"`
	Exclude   []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`     // path prefixes that are not recorded
	Redact    []string `json:"redact,omitempty" yaml:"redact,omitempty"`       // header names masked in recordings
	RateLimit float64  `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"` // recordings per second, 0 for unlimited
	Burst     int      `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// Template returns the named template.
func (c *Config) Template(name string) (string, bool) {
	t, ok := c.Templates[name]
	return t, ok
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitcmd.yaml",
	".hitcmd.yml",
	".hitcmd.json",
	"hitcmd.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: maxDepth must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: logFormat must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Record.RateLimit < 0 || c.Record.Burst < 0 {
		return fmt.Errorf("%w: record rate limit must not be negative", ErrInvalidConfig)
	}
	if c.Record.Port < 0 || c.Record.Port > 65535 {
		return fmt.Errorf("%w: record port %d out of range", ErrInvalidConfig, c.Record.Port)
	}
	return nil
}

// ApplyEnv overrides settings from variables such as those returned by
// env.LoadSystemEnv("HITCMD_").
func (c *Config) ApplyEnv(vars map[string]string) error {
	for key, val := range vars {
		switch key {
		case "MAX_DEPTH":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%w: HITCMD_MAX_DEPTH: %v", ErrInvalidConfig, err)
			}
			c.MaxDepth = n
		case "TEMP_DIR":
			c.TempDir = val
		case "ENV_FILE":
			c.EnvFile = val
		case "HISTORY_DB":
			c.HistoryDB = val
		case "LOG_LEVEL":
			c.LogLevel = val
		case "LOG_FORMAT":
			c.LogFormat = val
		case "NO_COLOR":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%w: HITCMD_NO_COLOR: %v", ErrInvalidConfig, err)
			}
			c.NoColor = BoolPtr(b)
		}
	}
	return c.Validate()
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.MaxDepth > 0 {
		result.MaxDepth = other.MaxDepth
	}
	if other.TempDir != "" {
		result.TempDir = other.TempDir
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Merge templates
	if len(other.Templates) > 0 {
		templates := make(map[string]string, len(c.Templates)+len(other.Templates))
		for k, v := range c.Templates {
			templates[k] = v
		}
		for k, v := range other.Templates {
			templates[k] = v
		}
		result.Templates = templates
	}

	if other.Record.Port > 0 {
		result.Record.Port = other.Record.Port
	}
	if len(other.Record.Exclude) > 0 {
		result.Record.Exclude = other.Record.Exclude
	}
	if len(other.Record.Redact) > 0 {
		result.Record.Redact = other.Record.Redact
	}
	if other.Record.RateLimit > 0 {
		result.Record.RateLimit = other.Record.RateLimit
	}
	if other.Record.Burst > 0 {
		result.Record.Burst = other.Record.Burst
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the extension
// asks for it and JSON otherwise.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
