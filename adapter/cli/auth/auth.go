// Package auth exposes the OAuth2 login flow for the calendar identity
// (spec §6: calendar read/write is reached through an identity outside
// the scheduling core).
package auth

import (
	"errors"
	"fmt"

	"github.com/bja1701/life-os/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the parent command for authentication helpers.
var Cmd = &cobra.Command{
	Use:   "auth",
	Short: "Calendar identity helpers (OAuth2)",
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Generate the calendar provider's OAuth2 authorization URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Container.OAuthService == nil {
			return errors.New("oauth is not configured (set OAUTH_PROVIDER and related env vars)")
		}

		state := uuid.New().String()
		fmt.Println(app.Container.OAuthService.AuthURL(state))
		fmt.Printf("State: %s\n", state)
		return nil
	},
}

var authCode string

var authExchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Exchange an OAuth2 authorization code for tokens and store them",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Container.OAuthService == nil {
			return errors.New("oauth is not configured (set OAUTH_PROVIDER and related env vars)")
		}
		if authCode == "" {
			return errors.New("missing --code")
		}

		if _, err := app.Container.OAuthService.ExchangeAndStore(cmd.Context(), app.CurrentUserID, authCode); err != nil {
			return fmt.Errorf("failed to exchange code: %w", err)
		}

		fmt.Println("Calendar identity connected. Tokens stored encrypted at rest.")
		return nil
	},
}

func init() {
	authExchangeCmd.Flags().StringVar(&authCode, "code", "", "authorization code from the provider's redirect")

	Cmd.AddCommand(authURLCmd, authExchangeCmd)
	cli.RootCmd().AddCommand(Cmd)
}
