package main

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/planpack/internal/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !cmd.IsSilent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
