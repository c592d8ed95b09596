package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func blocksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [page]",
		Short: "List pages, or the blocks of a page",
		Long: `Without arguments, list the registered pages. With a page name,
list the block names the page exposes and how many instances of each
a substitution would fill.

Examples:
  markup blocks
  markup blocks guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			s, err := a.newSite(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, page := range s.Pages() {
					fmt.Fprintln(out, page)
				}
				return nil
			}

			counts, err := s.Blocks(args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BLOCK\tINSTANCES")
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
			}
			return tw.Flush()
		},
	}
}
