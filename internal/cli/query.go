package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
)

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current auction state",
		Long:  "Show the current auction state. Team credentials are only included for an admin token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.AuctionState
			if err := client.Get("/api/v1/state", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(&result)
			return nil
		},
	}
}

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams by remaining purse",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Teams
			if err := client.Get("/api/v1/teams", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show sold and unsold counts per set",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SetProgressList
			if err := client.Get("/api/v1/sets/progress", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newQueueCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the players waiting in the current set",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/queue"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result response.Queue
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of players to show (server default if unset)")

	return cmd
}

func newSalesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sales",
		Short: "Show the sales ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Sales
			if err := client.Get("/api/v1/sales", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newConnectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "Show connected clients (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result realtime.ConnectionStats
			if err := client.Get("/api/v1/connections", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
