package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/planpack/internal/config"
	"github.com/Iron-Ham/planpack/internal/errors"
	"github.com/Iron-Ham/planpack/internal/pack"
)

var validateCmd = &cobra.Command{
	Use:   "validate <feature-dir>",
	Short: "Validate a Planning Pack",
	Long: `Validate <feature-dir>/tasks.json and its supporting artifacts.

This command checks:
  - Valid JSON syntax and document shape
  - Meta block typing and consistency (schema_version, platforms, WSL)
  - Per-task field typing, enums, and type-conditional requiredness
  - Cross-task references and kickoff prompt paths
  - Smoke script linkage for integration tasks
  - The per-slice platform integration model (schema_version >= 2)
  - Execution gate artifacts (meta.execution_gates=true)
  - Automation pack shape (schema_version >= 3 with automation enabled)

All violations are reported, one line per finding, so a whole pack can be
fixed in one pass.

The exit code indicates the result:
  0 - Pack is valid
  1 - Pack has validation errors
  2 - tasks.json is missing, or no feature directory was given

Examples:
  # Validate a pack
  planpack validate docs/project_management/next/my-feature

  # Validate with JSON output
  planpack validate --json docs/project_management/next/my-feature`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output validation result as JSON")
	rootCmd.AddCommand(validateCmd)
}

// ValidationOutput represents the JSON output format for validation results.
type ValidationOutput struct {
	Valid       bool              `json:"valid"`
	Path        string            `json:"path"`
	ErrorCount  int               `json:"error_count"`
	Diagnostics []pack.Diagnostic `json:"diagnostics,omitempty"`
	LoadError   string            `json:"load_error,omitempty"`
}

// runValidate is the command handler for the validate subcommand. It
// validates a Planning Pack and outputs results in either human-readable or
// JSON format depending on the --json flag.
func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &usageError{message: "missing required argument: feature directory"}
	}
	featureDir := args[0]

	cfg := config.Get()
	useJSON := validateJSON || cfg.Output.Format == config.FormatJSON

	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	validator := pack.NewValidator(afero.NewOsFs(), log.WithCommand("validate"))
	report, err := validator.ValidatePack(featureDir)
	if err != nil {
		if useJSON {
			if jsonErr := printJSON(ValidationOutput{
				Valid:     false,
				Path:      report.Path,
				LoadError: err.Error(),
			}); jsonErr != nil {
				return jsonErr
			}
			return &silentError{err: err}
		}
		if errors.Is(err, errors.ErrDocumentMissing) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: missing\n", report.Path)
			printSummaryFail(report.Path, cfg.Output.Color)
			return &silentError{err: err}
		}
		return err
	}

	if useJSON {
		if jsonErr := printJSON(ValidationOutput{
			Valid:       report.OK(),
			Path:        report.Path,
			ErrorCount:  report.Count(),
			Diagnostics: report.Diagnostics,
		}); jsonErr != nil {
			return jsonErr
		}
		if !report.OK() {
			return &silentError{err: errors.ErrPackInvalid}
		}
		return nil
	}

	if !report.OK() {
		printDiagnosticLines(report.Lines())
		printSummaryFail(report.Path, cfg.Output.Color)
		return &silentError{err: errors.ErrPackInvalid}
	}

	printSummaryOK(report.Path, cfg.Output.Color)
	return nil
}
