package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/arena/internal/gameserver"
)

type battleRunner func(ctx context.Context, h *gameserver.FightHandler, ids []int64) (*gameserver.BattleReport, error)

func roundBattle(ctx context.Context, h *gameserver.FightHandler, ids []int64) (*gameserver.BattleReport, error) {
	return h.RoundBattle(ctx, ids)
}

func deathmatch(ctx context.Context, h *gameserver.FightHandler, ids []int64) (*gameserver.BattleReport, error) {
	return h.Deathmatch(ctx, ids)
}

func newBattleCmd(opts *options, use, short string, run battleRunner) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <character-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(opts, func(ctx context.Context, a *app) error {
				report, err := run(ctx, a.handler, ids)
				if err != nil {
					return err
				}
				printBattle(opts, report)
				return nil
			})
		},
	}
}

func printBattle(opts *options, r *gameserver.BattleReport) {
	for _, line := range r.Log {
		fmt.Fprintln(opts.out, line)
	}
	fmt.Fprintf(opts.out, "\nEncounter: %s\n", r.EncounterID)
	fmt.Fprintf(opts.out, "Winner:    %s (#%d, %d victories)\n", r.Winner.Name, r.Winner.ID, r.Winner.Victories)
	for _, d := range r.Defeated {
		fmt.Fprintf(opts.out, "Defeated:  %s (#%d, %d defeats)\n", d.Name, d.ID, d.Defeats)
	}
}
