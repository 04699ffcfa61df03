package cmd

import (
	"context"
	"fmt"

	recrender "github.com/bnema/steamrec/internal/adapters/render/recommendations"
	"github.com/bnema/steamrec/internal/application"
	"github.com/bnema/steamrec/internal/config"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/spf13/cobra"
)

type recommendOptions struct {
	asJSON     bool
	noExport   bool
	noProgress bool
	hideLinks  bool
}

func newRecommendCmd() *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Collect friend libraries and rank the games you do not own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}
			return runRecommend(cmd, app, opts)
		},
	}

	cmd.Flags().String("steam-id", "", "Steam ID to recommend for (default: STEAM_ID)")
	cmd.Flags().Int("batch-size", 0, "Friends fetched per batch")
	cmd.Flags().Int("max-retries", 0, "Attempts per request before giving up")
	cmd.Flags().String("reference", "", "Path of the base_steam.jsonl reference dataset")
	cmd.Flags().Bool(config.FlagFirstBatchOnly, false, "Stop after the first batch of friends")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&opts.noExport, "no-export", false, "Do not save the result to the history file")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Do not show the progress spinner")
	cmd.Flags().BoolVar(&opts.hideLinks, "no-links", false, "Hide store links in the rendered list")

	return cmd
}

func runRecommend(cmd *cobra.Command, app *app, opts recommendOptions) error {
	if err := app.cfg.RequireSteamID(); err != nil {
		return err
	}

	var result application.RecommendResult
	run := func(ctx context.Context, progress func(string)) error {
		var observer func(application.CollectState, int)
		if progress != nil {
			observer = func(state application.CollectState, batch int) {
				progress(collectLabel(state, batch))
			}
		}

		service, err := app.recommendService(ctx, observer)
		if err != nil {
			return err
		}

		result, err = service.Recommend(ctx, application.RecommendCommand{SteamID: app.cfg.SteamID})
		return err
	}

	var err error
	if opts.asJSON || opts.noProgress {
		err = run(cmd.Context(), nil)
	} else {
		err = runCollectSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading friend list...", run)
	}
	if err != nil {
		return err
	}

	if !opts.noExport && len(result.Recommendations) > 0 {
		// Export even when interrupted; the partial ranking is still useful.
		if err := app.service.SaveHistory(context.WithoutCancel(cmd.Context()), result); err != nil {
			logging.Ctx(cmd.Context()).Warn().Err(err).Msg("saving recommendation history failed")
		}
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), toRecommendOutputJSON(result))
	}

	rendered, err := app.renderer(recrender.FromResult(result), recrender.RenderOptions{HideLinks: opts.hideLinks})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func collectLabel(state application.CollectState, batch int) string {
	switch state {
	case application.StateLoadingSnapshot:
		return "Loading snapshot and your library..."
	case application.StateCollecting:
		return fmt.Sprintf("Collecting friend libraries (batch %d)...", batch+1)
	case application.StateCheckpointing:
		return fmt.Sprintf("Saving progress (batch %d)...", batch+1)
	case application.StateDone:
		return "Ranking games..."
	default:
		return "Collecting friend libraries..."
	}
}
