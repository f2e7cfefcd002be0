// Mini-relay is the chat relay the mini client connects to.
//
// It accepts websocket connections, tracks channel membership and forwards
// each privmsg to the other members of its target channel or to a single
// nickname. The relay can advertise itself on the local network via mDNS so
// that 'mini scan' and 'mini setup' can find it.
//
// Usage:
//
//	mini-relay serve [flags]
//
// See 'mini-relay serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/server"
	"github.com/DevOrc/mini/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mini-relay",
	Short: "Mini chat relay",
	Long: `A small websocket chat relay for the mini terminal client.

Clients identify with a nickname, join channels and send lines to a channel
or directly to another nickname. Lines are never echoed back to their sender.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var (
	host      string
	port      int
	path      string
	certPath  string
	keyPath   string
	motd      string
	advertise bool
	instance  string
	logLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay",
	Long: `Start the chat relay and accept client connections.

TLS is enabled when both --cert and --key are given; clients then connect
with a wss:// URL. With --advertise the relay registers itself as
_minichat._tcp on the local network.`,
	Example: `  # Plain websocket relay on the default port
  mini-relay serve

  # Listen on localhost only, with a message of the day
  mini-relay serve --host 127.0.0.1 --motd "welcome to #mini"

  # TLS with your own certificate, advertised via mDNS
  mini-relay serve --cert fullchain.pem --key privkey.pem --advertise`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", server.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&path, "path", server.DefaultPath, "Websocket endpoint path")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&motd, "motd", "", "Notice sent to every client after it identifies")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the relay via mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", "", "mDNS instance name (default: derived from hostname)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath == "") != (keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}
	for _, f := range []string{certPath, keyPath} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", f)
		}
	}

	if err := logging.Initialize(logLevel, ""); err != nil {
		return err
	}
	defer logging.Sync()

	srv, err := server.New(&server.Config{
		Host:      host,
		Port:      port,
		Path:      path,
		CertPath:  certPath,
		KeyPath:   keyPath,
		MOTD:      motd,
		Advertise: advertise,
		Instance:  instance,
	})
	if err != nil {
		return fmt.Errorf("failed to create relay: %w", err)
	}

	if err := srv.Start(); err != nil {
		logging.Error("Relay stopped with error", zap.Error(err))
		return err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.Get("mini-relay"))
	},
}
