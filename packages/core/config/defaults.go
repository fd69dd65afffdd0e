package config

import "github.com/abdul-hamid-achik/hitcmd/packages/core/parser"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:  parser.DefaultMaxDepth,
		TempDir:   "", // os.TempDir()
		EnvFile:   ".env",
		HistoryDB: ".hitcmd/history.db",
		LogLevel:  "warn",
		LogFormat: "text",
		NoColor:   BoolPtr(false),
		Record: RecordConfig{
			Port:  8080,
			Burst: 1,
		},
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.MaxDepth == defaults.MaxDepth &&
		c.TempDir == defaults.TempDir &&
		c.EnvFile == defaults.EnvFile &&
		c.HistoryDB == defaults.HistoryDB &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat &&
		c.GetNoColor() == defaults.GetNoColor() &&
		len(c.Templates) == 0 &&
		c.Record.Port == defaults.Record.Port &&
		len(c.Record.Exclude) == 0 &&
		len(c.Record.Redact) == 0 &&
		c.Record.RateLimit == defaults.Record.RateLimit &&
		c.Record.Burst == defaults.Record.Burst
}
