package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/planpack/internal/config"
	"github.com/Iron-Ham/planpack/internal/sentinel"
)

var sentinelCmd = &cobra.Command{
	Use:   "sentinel [root]",
	Short: "Stamp kickoff prompts with the no-doc-edits sentinel",
	Long: `Ensure every kickoff prompt under the planning tree carries the
canonical no-doc-edits sentinel line.

The command scans root for kickoff_prompts directories and rewrites any *.md
file missing the sentinel, inserting it after the start checklist heading
(or appending it when the heading is absent). Files already carrying the
sentinel are left untouched, so repeated runs are no-ops.

Examples:
  # Stamp the default planning tree
  planpack sentinel

  # Stamp one feature's prompts
  planpack sentinel docs/project_management/next/my-feature`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSentinel,
}

func init() {
	rootCmd.AddCommand(sentinelCmd)
}

func runSentinel(cmd *cobra.Command, args []string) error {
	root := sentinel.DefaultRoot
	if len(args) > 0 {
		root = args[0]
	}

	cfg := config.Get()
	log, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	stamper := sentinel.NewStamper(afero.NewOsFs(), cfg.Sentinel.Text, cfg.Sentinel.Heading, log.WithCommand("sentinel"))
	changed, err := stamper.EnsureTree(root)
	if err != nil {
		return err
	}

	fmt.Printf("Updated kickoff prompts: %d\n", changed)
	return nil
}
