package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/builtin"
	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/env"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/evaluator"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
	"github.com/abdul-hamid-achik/hitcmd/packages/output"
	"github.com/abdul-hamid-achik/hitcmd/packages/store"
)

var (
	templateFileFlag string
	templateNameFlag string
	setFlag          string
	outputFlag       string
	jsonFlag         bool
)

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&templateFileFlag, "file", "f", "", "Read the template from a file")
	cmd.Flags().StringVarP(&templateNameFlag, "name", "n", "", "Use a named template from the config file")
}

// loadTemplate picks the template from the argument ("-" reads stdin), the
// --file flag or a named config template. Exactly one source must be given.
func loadTemplate(cmd *cobra.Command, args []string) (string, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, templateFileFlag != "", templateNameFlag != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return "", withCode(ExitUsageError, errors.New("give exactly one template: an argument, --file or --name"))
	}

	switch {
	case templateFileFlag != "":
		data, err := os.ReadFile(templateFileFlag)
		if err != nil {
			return "", withCode(ExitInputError, fmt.Errorf("failed to read template: %w", err))
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	case templateNameFlag != "":
		tmpl, ok := state.cfg.Template(templateNameFlag)
		if !ok {
			return "", withCode(ExitConfigError, fmt.Errorf("no template named %q in config", templateNameFlag))
		}
		return tmpl, nil
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", withCode(ExitInputError, fmt.Errorf("failed to read template: %w", err))
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return args[0], nil
}

// parseSetFlag parses "KEY=VALUE,KEY2=VALUE2" overrides for env().
func parseSetFlag(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected KEY=VALUE", pair)
		}
		out[strings.TrimSpace(key)] = val
	}
	return out, nil
}

func newRegistry() (*builtin.Registry, error) {
	vars, err := env.Load(state.cfg.EnvFile)
	if err != nil {
		return nil, withCode(ExitConfigError, fmt.Errorf("failed to load env file: %w", err))
	}
	overrides, err := parseSetFlag(setFlag)
	if err != nil {
		return nil, withCode(ExitUsageError, err)
	}
	if len(overrides) > 0 {
		vars = vars.With(overrides)
	}

	return builtin.NewRegistry(
		builtin.WithTempDir(state.cfg.TempDir),
		builtin.WithEnv(vars.Lookup),
	), nil
}

func newRenderer(reg *builtin.Registry) *render.Renderer {
	eval := evaluator.New(reg,
		evaluator.WithMaxDepth(state.cfg.MaxDepth),
		evaluator.WithLogger(state.logger),
	)
	return render.New(eval, render.WithLogger(state.logger))
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "console", "Output format: console, json")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Shorthand for --output json")
}

func newFormatter(cmd *cobra.Command, verbose bool) (output.Formatter, error) {
	format := outputFlag
	if jsonFlag {
		format = "json"
	}
	f, err := output.NewFormatter(format, output.Options{
		Writer:  cmd.OutOrStdout(),
		Verbose: verbose,
		NoColor: state.cfg.GetNoColor(),
	})
	if err != nil {
		return nil, withCode(ExitUsageError, err)
	}
	return f, nil
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		path = state.cfg.HistoryDB
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, withCode(ExitInputError, err)
	}
	return s, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid history id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadRecordings returns the selected exchanges, from a capture file or
// from the history database.
func loadRecordings(ctx context.Context, capturePath, selection, dbPath, ids string) ([]capture.Recording, error) {
	switch {
	case capturePath != "" && ids != "":
		return nil, withCode(ExitUsageError, errors.New("--capture and --id cannot be combined"))

	case capturePath != "":
		recs, err := capture.Load(capturePath)
		if err != nil {
			return nil, withCode(ExitInputError, err)
		}
		indices, err := capture.ParseSelection(selection, len(recs))
		if errors.Is(err, capture.ErrInvalidSelection) {
			return nil, withCode(ExitUsageError, err)
		}
		if err != nil {
			return nil, withCode(ExitInputError, err)
		}
		selected, err := capture.Select(recs, indices)
		if err != nil {
			return nil, withCode(ExitInputError, err)
		}
		return selected, nil

	case ids != "":
		parsed, err := parseIDs(ids)
		if err != nil {
			return nil, withCode(ExitUsageError, err)
		}
		s, err := openStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer s.Close()

		recs, err := s.Get(ctx, parsed...)
		if err != nil {
			return nil, withCode(ExitInputError, err)
		}
		return recs, nil
	}
	return nil, withCode(ExitUsageError, errors.New("select exchanges with --capture or --id"))
}

// buildContext builds a single-exchange context for one recording and a
// list context for several.
func buildContext(recs []capture.Recording) (*exchange.Context, error) {
	reqs, resps := capture.Exchanges(recs)
	var (
		ctx *exchange.Context
		err error
	)
	if len(recs) == 1 {
		ctx, err = exchange.Build(reqs[0], resps[0])
	} else {
		ctx, err = exchange.BuildList(reqs, resps)
	}
	if err != nil {
		return nil, withCode(ExitInputError, err)
	}
	return ctx, nil
}
