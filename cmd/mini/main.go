// Mini is a small terminal chat client.
//
// The screen is split into a scrolling output region and a four-row input
// bar at the bottom. Typed lines are sent to a single target channel on a
// mini-relay server; lines from other users appear above as "<nick>: text".
//
// Usage:
//
//	mini [flags]
//	mini [command]
//
// Running without a command opens the chat. Escape (or Ctrl+C) quits.
// See 'mini --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DevOrc/mini/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mini",
	Short: "Mini terminal chat client",
	Long: `A minimal terminal chat client.

Lines typed in the input bar are sent to the configured target channel.
Incoming messages and your own lines scroll above the input bar.

Settings come from the config file (see 'mini config'), overridden by flags.
Run 'mini setup' to create the file interactively.`,
	Example: `  # Chat with the saved configuration
  mini

  # Connect somewhere else for this session
  mini --server wss://chat.example.com/ws --nick ada --target #go

  # Connect to a relay advertised on the local network
  mini --relay "mini-relay on den"`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <config dir>/config.yaml)")

	rootCmd.Flags().StringVar(&serverURL, "server", "", "Relay URL (ws:// or wss://)")
	rootCmd.Flags().StringVar(&relayName, "relay", "", "Find the relay by its mDNS instance name instead of --server")
	rootCmd.Flags().StringVar(&nickname, "nick", "", "Nickname")
	rootCmd.Flags().StringSliceVar(&channels, "channel", nil, "Channel to join (repeatable)")
	rootCmd.Flags().StringVar(&target, "target", "", "Channel or nickname submitted lines are sent to")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty is silent")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file (default: <config dir>/mini.log)")
	rootCmd.MarkFlagsMutuallyExclusive("server", "relay")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
