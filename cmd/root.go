package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the CLI with a context that is canceled on SIGINT or SIGTERM,
// so an interrupted collection still writes its checkpoint.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "steamrec",
		Short:         "Steam game recommendations from your friends' libraries",
		Long:          "steamrec collects the game libraries of your Steam friends, resuming from a local snapshot when interrupted, and ranks the games you do not own yet.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: $XDG_CONFIG_HOME/steamrec/config.toml)")
	flags.String("profile", "", "Settings profile (default|test)")
	flags.String("state-dir", "", "Directory for the snapshot and history files")
	flags.String("log-level", "", "Log level (trace|debug|info|warn|error)")
	flags.String("log-format", "", "Log format (console|json)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRecommendCmd(),
		newCacheCmd(),
		newHistoryCmd(),
		newAuthCmd(),
	)

	return rootCmd
}
