package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/catalog"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// parseAmount reads a rupee amount. Plain integers are taken as-is;
// k, l (lakh), m and cr (crore) suffixes scale the number.
func parseAmount(s string) (int64, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.ReplaceAll(raw, "_", "")
	raw = strings.ReplaceAll(raw, ",", "")

	multiplier := float64(1)
	for _, suffix := range []struct {
		text  string
		scale float64
	}{
		{"cr", crore},
		{"k", 1_000},
		{"l", lakh},
		{"m", 1_000_000},
	} {
		if strings.HasSuffix(raw, suffix.text) {
			raw = strings.TrimSuffix(raw, suffix.text)
			multiplier = suffix.scale
			break
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return int64(n*multiplier + 0.5), nil
}

// runAction sends one admin message and prints the resulting state update
func runAction(t realtime.MessageType, payload any) error {
	s, err := adminSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	env, err := s.Do(t, payload)
	if err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	if cfg.Output == "json" {
		out.Print(env)
		return nil
	}
	var state model.AuctionState
	if err := json.Unmarshal(env.Payload, &state); err != nil {
		return fmt.Errorf("failed to parse state update: %w", err)
	}
	out.Print(&state)
	return nil
}

func newBidCmd() *cobra.Command {
	var (
		teamID   string
		amount   string
		playerID string
	)

	cmd := &cobra.Command{
		Use:   "bid",
		Short: "Record a bid on the current player",
		Example: `  auctionctl bid --team T1 --amount 12l
  auctionctl bid --team 2 --amount 1.5cr --player P7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			return runAction(realtime.TypeBid, realtime.BidPayload{
				TeamID:   model.TeamID(teamID),
				Amount:   value,
				PlayerID: model.PlayerID(playerID),
			})
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Bidding team id")
	cmd.Flags().StringVar(&amount, "amount", "", "Bid amount (e.g. 1200000, 12l, 1.2m, 1cr)")
	cmd.Flags().StringVar(&playerID, "player", "", "Player the bid is for (rejected if not the current player)")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newSellCmd() *cobra.Command {
	var (
		teamID   string
		amount   string
		playerID string
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell the current player",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			return runAction(realtime.TypeSale, realtime.SalePayload{
				TeamID:   model.TeamID(teamID),
				PlayerID: model.PlayerID(playerID),
				Amount:   value,
			})
		},
	}

	cmd.Flags().StringVar(&teamID, "team", "", "Buying team id")
	cmd.Flags().StringVar(&amount, "amount", "", "Sale price")
	cmd.Flags().StringVar(&playerID, "player", "", "Player sold (defaults to the current player)")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newUnsoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsold",
		Short: "Mark the current player unsold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(realtime.TypeMarkUnsold, nil)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Switch to another set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(realtime.TypeChangeSet, realtime.SetPayload{Set: args[0]})
		},
	}
}

func newRequeueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <set>",
		Short: "Put a set's unsold players back up for auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(realtime.TypeRequeueUnsold, realtime.SetPayload{Set: args[0]})
		},
	}
}

func newResetCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the auction to the stored catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("reset discards every bid and sale; pass --yes to confirm")
			}
			return runAction(realtime.TypeResetAuction, nil)
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")

	return cmd
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Load teams, players or a whole catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "teams <file>",
		Short: "Replace the live team list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			teams, err := catalog.DecodeTeams(data, catalog.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			return runAction(realtime.TypeStateUpdate, realtime.StatePatchPayload{Teams: &teams})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "players <file>",
		Short: "Replace the live player list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			players, err := catalog.DecodePlayers(data, catalog.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			return runAction(realtime.TypeStateUpdate, realtime.StatePatchPayload{Players: &players})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "catalog <file>",
		Short: "Store a catalog used by the next reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			contentType := "application/json"
			if catalog.FormatFromPath(args[0]) == catalog.FormatYAML {
				contentType = "application/yaml"
			}

			var result response.CatalogSummary
			if err := client.DoRaw(http.MethodPut, "/api/v1/catalog", data, contentType, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
