package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Summary styles. Lipgloss degrades these automatically on dumb terminals
// and honors NO_COLOR.
var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// printSummaryOK prints the success summary line to stdout.
func printSummaryOK(path string, color bool) {
	prefix := "OK"
	if color {
		prefix = okStyle.Render(prefix)
	}
	fmt.Printf("%s: tasks.json validation passed: %s\n", prefix, path)
}

// printSummaryFail prints the failure summary line to stderr, after the
// diagnostic lines.
func printSummaryFail(path string, color bool) {
	prefix := "FAIL"
	if color {
		prefix = failStyle.Render(prefix)
	}
	fmt.Fprintf(os.Stderr, "%s: tasks.json validation failed: %s\n", prefix, path)
}

// printDiagnosticLines writes one line per finding to stderr, in emission
// order.
func printDiagnosticLines(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, line)
	}
}

// printJSON marshals and prints v as formatted JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
