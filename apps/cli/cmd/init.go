package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/config"
	"github.com/abdul-hamid-achik/hitcmd/packages/http"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hitcmd project",
	Long: `Initialize a new hitcmd project in the current directory.

This creates:
  - .hitcmd.yaml          - Configuration file with example named templates
  - example.capture.yaml  - Example capture with two exchanges

Examples:
  hitcmd init
  hitcmd init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

// exampleTemplates are written to a new config file.
var exampleTemplates = map[string]string{
	"curl":    `curl -X %request.method% %quote(request.url)% -H %quote(concat("Content-Type: ", request.contentType))% -d %quote(request.body)%`,
	"token":   `export TOKEN=%json(response.body, "$.token")%`,
	"urls":    `%httpList.urls%`,
	"latency": `echo "p50=%httpList.latency.p50%ms p95=%httpList.latency.p95%ms"`,
}

func exampleCapture() []capture.Recording {
	login := http.NewRequest("POST", "https://api.example.com/login").
		AddHeader("Content-Type", "application/json").
		SetBody(`{"user":"neo","password":"red-pill"}`)
	me := http.NewRequest("GET", "https://api.example.com/me").
		AddHeader("Authorization", "Bearer abc123").
		AddHeader("Accept", "application/json")

	now := time.Now().UTC().Truncate(time.Second)
	return []capture.Recording{
		capture.FromExchange(login, &http.Response{
			StatusCode: 200,
			Status:     "200 OK",
			Protocol:   http.DefaultProtocol,
			Headers:    []http.Header{{Name: "Content-Type", Value: "application/json"}, {Name: "Set-Cookie", Value: "session=s1; Path=/; HttpOnly"}},
			Body:       `{"token":"abc123","expires":3600}`,
			Duration:   42 * time.Millisecond,
		}, now),
		capture.FromExchange(me, &http.Response{
			StatusCode: 200,
			Status:     "200 OK",
			Protocol:   http.DefaultProtocol,
			Headers:    []http.Header{{Name: "Content-Type", Value: "application/json"}},
			Body:       `{"id":7,"name":"Neo","roles":["admin","user"]}`,
			Duration:   18 * time.Millisecond,
		}, now.Add(time.Second)),
	}
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return withCode(ExitInputError, err)
	}

	configFile := filepath.Join(cwd, ".hitcmd.yaml")
	captureFile := filepath.Join(cwd, "example.capture.yaml")

	if !forceInit {
		for _, f := range []string{configFile, captureFile} {
			if _, err := os.Stat(f); err == nil {
				return withCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Templates = exampleTemplates
	if err := cfg.SaveConfig(configFile); err != nil {
		return withCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := capture.Write(captureFile, exampleCapture()); err != nil {
		return withCode(ExitInputError, fmt.Errorf("failed to create example capture: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", captureFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitcmd project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitcmd render -n curl -c example.capture.yaml -s 0' to render the example template.\n")
	return nil
}
