package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/auctionhouse/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the auction server is up",
		Long:  "Reports server status, live websocket connections and whether the auction has finished. Exits non-zero unless the status is ok.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Health

			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			if result.Status != "ok" {
				return fmt.Errorf("server reported status %q", result.Status)
			}
			return nil
		},
	}
}
