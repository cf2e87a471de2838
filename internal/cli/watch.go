package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
)

func newWatchCmd() *cobra.Command {
	var (
		role   string
		teamID string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live auction updates",
		Long: `Connect to the websocket feed and print every update until interrupted.

By default the connection stays anonymous. Pass --role to identify as a
viewer, a team or the auctioneer using the saved session token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := Dial(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			out := NewOutput(cfg.Output)
			out.Print(s.Bootstrap())

			if role != "" {
				confirmed, err := s.Identify(model.Role(role), model.TeamID(teamID), cfg.Token, cfg.DeviceID)
				if err != nil {
					return err
				}
				if cfg.Verbose {
					out.PrintMessage(fmt.Sprintf("Identified as %s", confirmed.Role))
				}
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				_ = s.Close()
			}()

			for {
				env, err := s.Next(0)
				if err != nil {
					if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
						errors.Is(err, net.ErrClosed) {
						return nil
					}
					return err
				}
				printEnvelope(out, env)
			}
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Identify as admin, team or viewer")
	cmd.Flags().StringVar(&teamID, "team", "", "Team id when identifying as a team")

	return cmd
}

func printEnvelope(out *Output, env realtime.Envelope) {
	if cfg.Output == "json" {
		out.Print(env)
		return
	}

	switch env.Type {
	case realtime.TypeStateUpdate:
		var partial realtime.PartialState
		if err := json.Unmarshal(env.Payload, &partial); err != nil {
			out.PrintError(err)
			return
		}
		if !partial.Full {
			printBid(partial)
			return
		}
		var state model.AuctionState
		if err := json.Unmarshal(env.Payload, &state); err != nil {
			out.PrintError(err)
			return
		}
		fmt.Println("---")
		out.Print(&state)
	default:
		if err := replyError(env); err != nil {
			out.PrintError(err)
			return
		}
		fmt.Printf("%s: %s\n", env.Type, string(env.Payload))
	}
}

func printBid(p realtime.PartialState) {
	if p.LeadingTeam == nil {
		fmt.Println("Bidding cleared")
		return
	}
	fmt.Printf("Bid: %s by %s\n", formatAmount(p.CurrentBid), p.LeadingTeam.Name)
}
