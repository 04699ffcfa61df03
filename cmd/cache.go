package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the resumable friend data snapshot",
	}

	cmd.AddCommand(newCacheShowCmd(), newCacheClearCmd())

	return cmd
}

func newCacheShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Summarise the saved snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}

			status, err := app.service.CacheStatus(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out := cacheStatusJSON{
					Path:     app.cfg.SnapshotPath,
					Present:  status.Present,
					SteamID:  status.SteamID,
					OwnGames: status.OwnGames,
					Friends:  status.Peers,
				}
				if status.Present {
					out.SavedAt = &status.SavedAt
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			if !status.Present {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "no snapshot at %s\n", app.cfg.SnapshotPath)
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"snapshot: %s\nsteam id: %s\nsaved at: %s\nown games: %d\nfriends collected: %d\n",
				app.cfg.SnapshotPath,
				displaySteamID(string(status.SteamID)),
				status.SavedAt.Local().Format("2006-01-02 15:04:05"),
				status.OwnGames,
				status.Peers,
			)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved snapshot so the next run starts fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}

			removed, err := app.service.ClearCache(cmd.Context())
			if err != nil {
				return err
			}

			if !removed {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no snapshot to clear")
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared snapshot %s\n", app.cfg.SnapshotPath)
			return err
		},
	}
}

func displaySteamID(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
