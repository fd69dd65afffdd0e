// Package cmd implements the hitcmd CLI commands using Cobra.
//
// Available commands:
//   - render: Render a command template against captured exchanges
//   - placeholders: List and check the placeholders of a template
//   - functions: List the built-in template functions
//   - record: Run a recording proxy
//   - history: List, show and clear recorded exchanges
//   - init: Create a config file and an example capture
//   - docs: Print the template language reference
//   - version: Show hitcmd version information
//
// Configuration is read from .hitcmd.yaml (or .json), then HITCMD_*
// environment variables, then flags.
package cmd
