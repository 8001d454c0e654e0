package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHighscoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "highscore",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				scores, err := a.handler.Highscore(ctx)
				if err != nil {
					return err
				}
				if len(scores) == 0 {
					fmt.Fprintln(opts.out, "No fights yet.")
					return nil
				}
				w := tabwriter.NewWriter(opts.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "RANK\tID\tNAME\tFIGHTS\tVICTORIES\tDEFEATS")
				for i, h := range scores {
					fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%d\n", i+1, h.ID, h.Name, h.Fights, h.Victories, h.Defeats)
				}
				return w.Flush()
			})
		},
	}
}
