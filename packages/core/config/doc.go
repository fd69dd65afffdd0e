// Package config handles configuration loading and management for hitcmd.
//
// It provides functionality for:
//   - Loading configuration from .hitcmd.yaml, .hitcmd.yml, .hitcmd.json or
//     hitcmd.config.json
//   - Default configuration values
//   - HITCMD_* environment overrides
//   - Named command templates
package config
