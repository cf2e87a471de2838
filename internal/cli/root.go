package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "auctionctl",
		Short: "CLI tool for the live player auction",
		Long: `auctionctl talks to a running auction server.

Read-only queries go over the JSON API. Auctioneer actions and the live
feed use the websocket channel, the same one the browser clients use.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: AUCTION_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: AUCTION_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: AUCTION_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.DeviceID, "device-id", cfg.DeviceID, "Device id sent when identifying (env: AUCTION_DEVICE_ID)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newTeamsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newQueueCmd())
	rootCmd.AddCommand(newSalesCmd())
	rootCmd.AddCommand(newConnectionsCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newBidCmd())
	rootCmd.AddCommand(newSellCmd())
	rootCmd.AddCommand(newUnsoldCmd())
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newRequeueCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newUploadCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
