package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/config"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/env"
	"github.com/abdul-hamid-achik/hitcmd/packages/logging"
	"github.com/abdul-hamid-achik/hitcmd/packages/output"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag    string
	envFileFlag   string
	logLevelFlag  string
	logFormatFlag string
	noColorFlag   bool
	maxDepthFlag  int
	tempDirFlag   string
)

// appState is what the persistent pre-run resolved for the running command.
type appState struct {
	cfg    *config.Config
	logger *slog.Logger
}

var state = &appState{cfg: config.DefaultConfig(), logger: logging.Nop()}

var rootCmd = &cobra.Command{
	Use:   "hitcmd",
	Short: "Render shell commands from captured HTTP traffic.",
	Long: `hitcmd turns recorded HTTP exchanges into ready-to-run commands.

Templates contain %expression% placeholders that are evaluated against the
selected exchange: chains such as %request.headers.user.agent% and function
calls such as %base64(response.body.json.token)%.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if code := execute(os.Args[1:], os.Stdout, os.Stderr); code != ExitSuccess {
		os.Exit(code)
	}
}

// execute runs the CLI with args and returns the exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			output.NewConsoleFormatter(output.WithWriter(stderr), output.WithNoColor(noColorFlag)).FormatError(err)
		}
	}
	return exitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("HITCMD_CONFIG", ""), "Path to config file (env: HITCMD_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Path to .env file used by env() (env: HITCMD_ENV_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (env: HITCMD_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text, json (env: HITCMD_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: HITCMD_NO_COLOR)")
	rootCmd.PersistentFlags().IntVar(&maxDepthFlag, "max-depth", 0, "Maximum function call nesting (env: HITCMD_MAX_DEPTH)")
	rootCmd.PersistentFlags().StringVar(&tempDirFlag, "temp-dir", "", "Directory for files created by tempfile() (env: HITCMD_TEMP_DIR)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(placeholdersCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves configuration in increasing precedence: defaults, config
// file, HITCMD_* environment, flags.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	if err := cfg.ApplyEnv(env.LoadSystemEnv("HITCMD_")); err != nil {
		return withCode(ExitConfigError, err)
	}

	flags := cmd.Flags()
	if flags.Changed("env-file") {
		cfg.EnvFile = envFileFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormatFlag
	}
	if flags.Changed("no-color") {
		cfg.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepthFlag
	}
	if flags.Changed("temp-dir") {
		cfg.TempDir = tempDirFlag
	}
	if err := cfg.Validate(); err != nil {
		return withCode(ExitConfigError, err)
	}
	noColorFlag = cfg.GetNoColor()

	state = &appState{
		cfg:    cfg,
		logger: logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()),
	}
	state.logger.Debug("configuration loaded", "maxDepth", cfg.MaxDepth, "envFile", cfg.EnvFile, "historyDB", cfg.HistoryDB)
	return nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
