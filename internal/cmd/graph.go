package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/planpack/internal/config"
	"github.com/Iron-Ham/planpack/internal/errors"
	"github.com/Iron-Ham/planpack/internal/pack"
)

var graphCmd = &cobra.Command{
	Use:   "graph <feature-dir>",
	Short: "Show the pack's dependency order",
	Long: `Topologically sort the tasks of <feature-dir>/tasks.json by their
depends_on edges and print the result.

By default every task id is printed on its own line, dependencies first.
With --tiers, tasks are grouped into execution tiers: each tier depends only
on the tiers above it, so its tasks can run in parallel.

Dependency cycles are reported and exit with status 1. The document only
needs to parse; run 'planpack validate' for the full rule set.

Examples:
  # Print a dependency-respecting task order
  planpack graph docs/project_management/next/my-feature

  # Group tasks into parallel execution tiers
  planpack graph --tiers docs/project_management/next/my-feature`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

var (
	graphTiers bool
	graphJSON  bool
)

func init() {
	graphCmd.Flags().BoolVar(&graphTiers, "tiers", false, "Group tasks into parallel execution tiers")
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Output the result as JSON")
	rootCmd.AddCommand(graphCmd)
}

// GraphOutput represents the JSON output format for graph results.
type GraphOutput struct {
	Path  string     `json:"path"`
	Order []string   `json:"order,omitempty"`
	Tiers [][]string `json:"tiers,omitempty"`
	Error string     `json:"error,omitempty"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &usageError{message: "missing required argument: feature directory"}
	}
	featureDir := args[0]

	cfg := config.Get()
	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	doc, report, err := pack.Load(afero.NewOsFs(), featureDir)
	if err != nil {
		if errors.Is(err, errors.ErrDocumentMissing) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: missing\n", report.Path)
			return &silentError{err: err}
		}
		return err
	}
	if report.Fatal {
		printDiagnosticLines(report.Lines())
		return &silentError{err: errors.ErrDocumentMalformed}
	}

	graph := pack.NewGraph(doc)
	log.WithCommand("graph").Debug("graph built", "pack", featureDir, "tasks", graph.Len())

	if graphTiers {
		tiers, err := graph.Tiers()
		if err != nil {
			return graphError(cmd, report.Path, err)
		}
		if graphJSON {
			return printJSON(GraphOutput{Path: report.Path, Tiers: tiers})
		}
		for i, tier := range tiers {
			fmt.Printf("tier %d: %s\n", i, strings.Join(tier, ", "))
		}
		return nil
	}

	order, err := graph.Order()
	if err != nil {
		return graphError(cmd, report.Path, err)
	}
	if graphJSON {
		return printJSON(GraphOutput{Path: report.Path, Order: order})
	}
	for _, id := range order {
		fmt.Println(id)
	}
	return nil
}

// graphError reports a cycle (or other ordering failure) in the requested
// output format.
func graphError(cmd *cobra.Command, path string, err error) error {
	if graphJSON {
		if jsonErr := printJSON(GraphOutput{Path: path, Error: err.Error()}); jsonErr != nil {
			return jsonErr
		}
		return &silentError{err: err}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
	return &silentError{err: err}
}
