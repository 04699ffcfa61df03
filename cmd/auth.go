package cmd

import (
	"fmt"

	"github.com/bnema/steamrec/internal/application"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Steam Web API key",
	}

	cmd.AddCommand(newAuthSetCmd(), newAuthRemoveCmd())

	return cmd
}

func newAuthSetCmd() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Steam Web API key in the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}

			if err := app.credentials.SetAPIKey(cmd.Context(), application.SetAPIKeyCommand{APIKey: apiKey}); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "steam api key stored")
			return err
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Steam Web API key")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored Steam Web API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd)
			if err != nil {
				return err
			}

			removed, err := app.credentials.RemoveAPIKey(cmd.Context())
			if err != nil {
				return err
			}

			message := "steam api key removed"
			if !removed {
				message = "no stored steam api key"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), message)
			return err
		},
	}
}
