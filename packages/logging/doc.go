// Package logging provides structured logging configuration for hitcmd.
//
// It wraps log/slog. Components accept a *slog.Logger through a WithLogger
// option and fall back to Nop() when none is given.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	logger.Debug("template rendered", "placeholders", 3)
//
// Logs go to stderr by default so that rendered commands on stdout can be
// piped to a shell.
package logging
