package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	rosterPath string
	storage    string
	timeout    time.Duration
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{out: out}
	root := &cobra.Command{
		Use:           "arena",
		Short:         "Arena combat resolver",
		Long:          `Arena resolves weapon and skill exchanges, round battles and deathmatches between stored characters and keeps the leaderboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file (defaults only when empty)")
	root.PersistentFlags().StringVar(&opts.storage, "storage", "", "override arena.storage: postgres or memory")
	root.PersistentFlags().StringVar(&opts.rosterPath, "roster", "", "roster YAML to seed the memory store with")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")

	root.AddCommand(
		newBattleCmd(opts, "round", "Run a round battle; it ends at the first defeat", roundBattle),
		newBattleCmd(opts, "deathmatch", "Run a deathmatch; the last fighter standing wins", deathmatch),
		newAttackCmd(opts),
		newHighscoreCmd(opts),
	)
	return root
}

// withApp builds the application, runs fn under the configured timeout, and
// tears the application down.
func withApp(opts *options, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	a, err := buildApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid character id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
