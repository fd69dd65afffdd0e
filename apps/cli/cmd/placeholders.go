package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/render"
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders [template|-]",
	Short: "List and check the placeholders of a template",
	Long: `List the %expression% placeholders of a template and check that each
one parses and only calls known functions. Nothing is evaluated, so no
capture is needed.

Exits with status 2 when a placeholder has a problem.

Examples:
  hitcmd placeholders "curl %request.url% -H 'X-Sig: %sha256(request.body)%'"
  hitcmd placeholders -f curl.tmpl --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: placeholdersCommand,
}

func init() {
	addTemplateFlags(placeholdersCmd)
	addOutputFlags(placeholdersCmd)
}

func placeholdersCommand(cmd *cobra.Command, args []string) error {
	tmpl, err := loadTemplate(cmd, args)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd, true)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	issues := newRenderer(reg).Check(tmpl)
	formatter.FormatPlaceholders(render.FindPlaceholders(tmpl), issues)

	if len(issues) > 0 {
		return &ExitError{Code: ExitParseError}
	}
	return nil
}
