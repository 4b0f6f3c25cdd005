package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <node name>...",
		Short: "Show the attributes parsed from node names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			grammar := cfg.Grammar()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range args {
				set := grammar.Parse(name)
				attrs := set.String()
				if set.Len() == 0 {
					attrs = "(none)"
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, attrs)
			}
			return tw.Flush()
		},
	}
}
