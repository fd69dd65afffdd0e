// Package env loads the variables available to the env() function.
//
// Values come from an optional .env file and fall back to the process
// environment. ParseDotEnv accepts optional "export " prefixes, single quotes
// (literal), double quotes (\n, \t, \" and \\ escapes) and trailing " #"
// comments on bare values. LoadSystemEnv collects prefixed process
// variables, which configuration uses for HITCMD_* overrides.
package env
