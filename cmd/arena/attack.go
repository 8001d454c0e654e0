package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/arena/internal/gameserver"
)

type attackFlags struct {
	userID     int64
	attackerID int64
	opponentID int64
	skillID    int64
}

func newAttackCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Perform a single weapon or skill exchange",
	}
	cmd.AddCommand(newWeaponAttackCmd(opts), newSkillAttackCmd(opts))
	return cmd
}

func bindAttackFlags(cmd *cobra.Command, f *attackFlags) {
	cmd.Flags().Int64Var(&f.userID, "user", 0, "id of the user owning the attacker (required)")
	cmd.Flags().Int64Var(&f.attackerID, "attacker", 0, "attacker character id (required)")
	cmd.Flags().Int64Var(&f.opponentID, "opponent", 0, "opponent character id (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("attacker")
	_ = cmd.MarkFlagRequired("opponent")
}

func newWeaponAttackCmd(opts *options) *cobra.Command {
	f := &attackFlags{}
	cmd := &cobra.Command{
		Use:   "weapon",
		Short: "Attack with the equipped weapon",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				report, err := a.handler.WeaponAttack(ctx, f.userID, f.attackerID, f.opponentID)
				if err != nil {
					return err
				}
				printExchange(opts, report)
				return nil
			})
		},
	}
	bindAttackFlags(cmd, f)
	return cmd
}

func newSkillAttackCmd(opts *options) *cobra.Command {
	f := &attackFlags{}
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Attack with a learned skill",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				report, err := a.handler.SkillAttack(ctx, f.userID, f.attackerID, f.opponentID, f.skillID)
				if err != nil {
					return err
				}
				printExchange(opts, report)
				return nil
			})
		},
	}
	bindAttackFlags(cmd, f)
	cmd.Flags().Int64Var(&f.skillID, "skill", 0, "skill id (required)")
	_ = cmd.MarkFlagRequired("skill")
	return cmd
}

func printExchange(opts *options, r *gameserver.ExchangeReport) {
	o := r.Outcome
	fmt.Fprintf(opts.out, "%s (%d HP) hits %s with %s for %d damage; %s has %d HP.\n",
		o.Attacker, o.AttackerHP, o.Opponent, o.Source, o.Damage, o.Opponent, o.OpponentHP)
	if r.Message != "" {
		fmt.Fprintln(opts.out, r.Message)
	}
}
