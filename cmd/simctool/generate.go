package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/simc"
)

func newCombosCmd() *cobra.Command {
	var includeBags bool

	cmd := &cobra.Command{
		Use:   "combos <export-file>",
		Short: "Count the gear combinations a selection expands into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, _, err := loadSelection(args[0], includeBags)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), simc.CombinationCount(sel))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeBags, "bags", false, "include bag items alongside equipped gear")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		includeBags bool
		maxTime     int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate <export-file>",
		Short: "Expand a selection into a multi-profile simc input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, p, err := loadSelection(args[0], includeBags)
			if err != nil {
				return err
			}

			combos := simc.GenerateCombinations(sel)
			if len(combos) == 0 {
				return domain.ErrNoCombinations
			}

			opts := simc.DefaultOptions()
			if maxTime > 0 {
				opts.MaxTime = maxTime
			}
			text := simc.Emit(p, combos, opts)

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(output, []byte(text), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d profiles to %s\n", len(combos), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeBags, "bags", false, "include bag items alongside equipped gear")
	cmd.Flags().IntVar(&maxTime, "max-time", 0, "fight duration in seconds (default from presets)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// loadSelection parses an export and builds the item selection, optionally
// pulling bag alternatives into every slot pool.
func loadSelection(path string, includeBags bool) (*simc.Selection, *simc.Profile, error) {
	input, err := readInput(path)
	if err != nil {
		return nil, nil, err
	}

	p, err := simc.Parse(input, simc.ParseOptions{SkippedSlots: simc.DefaultSkippedSlots})
	if err != nil {
		return nil, nil, err
	}

	sel := simc.SelectEquipped(p)
	if includeBags {
		// SlotOrder keeps bag-only slots at a stable position, and
		// SlotCandidates folds twin-slot pools (trinkets, weapons)
		// into each other.
		for _, slot := range p.SlotOrder {
			for _, item := range simc.SlotCandidates(p, slot) {
				sel.Add(slot, item)
			}
		}
		for _, ring := range p.Rings.Alternatives {
			sel.Add(simc.SlotRings, ring)
		}
	}
	return sel, p, nil
}
