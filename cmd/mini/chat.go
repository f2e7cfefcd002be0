package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/chat"
	"github.com/DevOrc/mini/internal/chatclient"
	"github.com/DevOrc/mini/internal/config"
	"github.com/DevOrc/mini/internal/discovery"
	"github.com/DevOrc/mini/internal/keys"
	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/screen"
	"github.com/DevOrc/mini/internal/ui"
)

// dialTimeout bounds connecting and identifying before the screen opens.
const dialTimeout = 15 * time.Second

// errReported is returned once a failure has already been printed.
var errReported = errors.New("")

// Chat flags
var (
	configPath string
	serverURL  string
	relayName  string
	nickname   string
	channels   []string
	target     string
	logLevel   string
	logFile    string
)

// loadConfig reads --config or the default config file.
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		return cfg, configPath, err
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load()
	return cfg, path, err
}

// configExists reports whether the file loadConfig reads is present.
func configExists(path string) bool {
	if configPath == "" {
		return config.Exists()
	}
	_, err := os.Stat(path)
	return err == nil
}

// applyFlags overrides file values with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = serverURL
	}
	if flags.Changed("nick") {
		cfg.Nickname = nickname
	}
	if flags.Changed("channel") {
		cfg.Channels = channels
	}
	if flags.Changed("target") {
		cfg.Target = target
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	return cfg.Validate()
}

// relayFinder resolves an mDNS instance name; *discovery.Scanner
// satisfies it.
type relayFinder interface {
	Find(ctx context.Context, instance string) (*discovery.Relay, error)
}

// resolveRelay points cfg at the named relay.
func resolveRelay(ctx context.Context, finder relayFinder, instance string, cfg *config.Config) error {
	relay, err := finder.Find(ctx, instance)
	if err != nil {
		return err
	}
	logging.Info("Relay resolved via mDNS",
		zap.String("instance", instance),
		zap.Stringer("relay", relay),
	)
	cfg.Server = relay.URL()
	return config.ValidateServer(cfg.Server)
}

// setupLogging sends logs to a file; the terminal belongs to the chat screen.
func setupLogging(cfg *config.Config) error {
	if cfg.LogLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		return logging.Initialize("", "")
	}

	path := cfg.LogFile
	if path == "" {
		var err error
		path, err = config.DefaultLogFile()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return logging.Initialize(cfg.LogLevel, path)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Sync()

	logging.Info("Starting mini",
		zap.String("config", path),
		zap.Bool("config_exists", configExists(path)),
		zap.String("server", cfg.Server),
		zap.String("nick", cfg.Nickname),
		zap.String("target", cfg.Target),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if relayName != "" {
		if err := resolveRelay(ctx, discovery.NewScanner(), relayName, cfg); err != nil {
			logging.Error("Failed to find relay", zap.Error(err))
			ui.NewPrinter(os.Stderr).PrintError("Could not find relay "+relayName, err, []string{
				"Run 'mini scan' to list relays on this network",
				"Check that the relay was started with --advertise",
				"Connect directly with mini --server <URL>",
			})
			return errReported
		}
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	client, err := chatclient.Dial(dialCtx, chatclient.Options{
		Server:   cfg.Server,
		Nick:     cfg.Nickname,
		Channels: cfg.Channels,
	})
	cancel()
	if err != nil {
		logging.Error("Failed to connect", zap.Error(err))
		ui.NewPrinter(os.Stderr).PrintError("Could not connect to "+cfg.Server, err, chatclient.Troubleshooting(err))
		return errReported
	}
	defer func() {
		if err := client.Close(); err != nil {
			logging.Debug("Close failed", zap.Error(err))
		}
	}()

	term, err := screen.Open()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	poller := keys.NewPoller(term, keys.DefaultQueueSize)
	poller.Start()
	defer func() {
		term.Close()
		<-poller.Done()
	}()

	ctrl := chat.New(term, poller, client)
	err = ctrl.Run(ctx, func(ev chat.Event) error {
		if ev.Kind != chat.EventSendMsg || ev.Text == "" {
			return nil
		}
		return client.Send(cfg.Target, ev.Text)
	})
	logging.Info("Chat closed", zap.Uint64("dropped_messages", client.Dropped()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
