package cmd

import (
	"errors"
	"fmt"

	recrender "github.com/bnema/steamrec/internal/adapters/render/recommendations"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the last saved recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}
			if err := app.cfg.RequireSteamID(); err != nil {
				return err
			}

			history, err := app.service.GetHistory(cmd.Context(), app.cfg.SteamID)
			if err != nil {
				if errors.Is(err, domain.ErrHistoryNotFound) {
					return fmt.Errorf("no saved recommendations for %s; run `steamrec recommend` first: %w", app.cfg.SteamID, err)
				}
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), historyOutputJSON{
					SteamID:         history.SteamID,
					ExportedAt:      history.ExportedAt,
					Recommendations: toRecommendationsJSON(history.Recommendations),
				})
			}

			rendered, err := app.renderer(recrender.FromHistory(history), recrender.RenderOptions{})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().String("steam-id", "", "Steam ID whose history to show (default: STEAM_ID)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
