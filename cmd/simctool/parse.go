package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wowlab/guildsim/internal/simc"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <export-file>",
		Short: "Parse an addon export and print the gear summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args[0])
			if err != nil {
				return err
			}

			p, err := simc.Parse(input, simc.ParseOptions{SkippedSlots: simc.DefaultSkippedSlots})
			if err != nil {
				return err
			}

			if err := simc.ValidateCharacter(p.Character.Class, p.Character.Spec); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  (%s %s, level %d)\n",
				p.Character.Name, p.Character.Spec, p.Character.Class, p.Character.Level)
			if p.Character.Realm != "" {
				fmt.Fprintf(out, "realm: %s (%s)\n", p.Character.Realm, p.Character.Region)
			}
			fmt.Fprintln(out)

			for _, slot := range p.SlotOrder {
				items := p.Slots[slot]
				if items == nil || items.Equipped == nil {
					continue
				}
				fmt.Fprintf(out, "%-12s %s", slot, describeItem(items.Equipped))
				if len(items.Alternatives) > 0 {
					fmt.Fprintf(out, "  (+%d in bags)", len(items.Alternatives))
				}
				fmt.Fprintln(out)
			}

			for _, ring := range p.Rings.Equipped {
				fmt.Fprintf(out, "%-12s %s\n", "ring", describeItem(ring))
			}
			if n := len(p.Rings.Alternatives); n > 0 {
				fmt.Fprintf(out, "%-12s +%d in bags\n", "ring", n)
			}

			return nil
		},
	}
}

func describeItem(item *simc.Item) string {
	name := item.Name
	if name == "" {
		name = "(unnamed)"
	}
	if item.ItemLevel > 0 {
		return fmt.Sprintf("%s  id=%d ilvl=%d", name, item.ID, item.ItemLevel)
	}
	return fmt.Sprintf("%s  id=%d", name, item.ID)
}
