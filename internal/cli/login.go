package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/auctionhouse/internal/api/request"
	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/model"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a session token",
	}

	cmd.AddCommand(newLoginAdminCmd())
	cmd.AddCommand(newLoginTeamCmd())

	return cmd
}

func newLoginAdminCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Log in as the auctioneer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AuthResponse
			if err := client.Post("/api/v1/auth/admin", request.AdminLoginRequest{Password: password}, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginTeamCmd() *cobra.Command {
	var (
		teamID   string
		password string
	)

	cmd := &cobra.Command{
		Use:   "team",
		Short: "Log in as a bidding team",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.TeamLoginRequest{TeamID: model.TeamID(teamID), Password: password}

			var result response.AuthResponse
			if err := client.Post("/api/v1/auth/team", req, &result); err != nil {
				return err
			}
			return saveSession(result)
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Team id")
	cmd.Flags().StringVar(&password, "password", "", "Team password")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in")
			}
			if err := client.Do(http.MethodPost, "/api/v1/auth/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.SaveToken(""); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}

func saveSession(result response.AuthResponse) error {
	if err := cfg.SaveToken(result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(result.Token)

	out := NewOutput(cfg.Output)
	out.Print(result)
	if cfg.Verbose {
		out.PrintMessage("Token saved to " + cfg.TokenFile)
	}
	return nil
}
