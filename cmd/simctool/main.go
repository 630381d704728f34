// Command simctool inspects SimulationCraft addon exports, expands gear
// combinations, and submits batches to a running guildsim server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "simctool",
		Short:         "Work with SimulationCraft addon exports and the simulation queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newParseCmd(),
		newCombosCmd(),
		newGenerateCmd(),
		newSubmitCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// readInput reads an addon export from a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
