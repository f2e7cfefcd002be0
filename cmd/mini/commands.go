package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DevOrc/mini/internal/config"
	"github.com/DevOrc/mini/internal/discovery"
	"github.com/DevOrc/mini/internal/ui"
	"github.com/DevOrc/mini/internal/version"
	"github.com/DevOrc/mini/internal/wizard"
)

// Subcommand flags
var (
	scanTimeout int
	noScan      bool
	showPath    bool
)

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	setupCmd.Flags().BoolVar(&noScan, "no-scan", false, "Skip looking for relays on the local network")
	configCmd.Flags().BoolVar(&showPath, "path", false, "Only print the config file path")
}

// setupCmd runs the interactive wizard and saves its result
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or edit the config file interactively",
	Long: `Launch a form for the nickname, relay URL and channels, then save them
to the config file.

Relays advertised on the local network are looked up first and the first
one found is offered as the server.`,
	Example: `  mini setup
  mini setup --no-scan
  mini setup --config ./mini.yaml`,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(os.Stdout)

	cfg, path, err := loadConfig()
	if err != nil {
		if path == "" {
			return err
		}
		p.PrintWarning(fmt.Sprintf("Ignoring unreadable config (%v)", err))
		cfg = config.Default()
	}

	var scan wizard.ScanFunc
	if !noScan {
		scanner := discovery.NewScanner()
		scanner.Timeout = wizard.ScanTimeout
		scan = scanner.Scan
	}

	result, err := wizard.Run(cfg, scan)
	if errors.Is(err, wizard.ErrCancelled) {
		p.PrintWarning("Setup cancelled, nothing was saved")
		return nil
	}
	if err != nil {
		return err
	}

	if err := result.SaveTo(path); err != nil {
		p.PrintError("Could not save configuration", err, []string{
			"Check that " + path + " is writable",
			"Use --config to save somewhere else",
		})
		return errReported
	}

	p.PrintSuccess("Configuration saved", configDetails(result, path))
	return nil
}

// scanCmd lists relays found via mDNS
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find relays on the local network",
	Long: `Browse for mini relays advertised via mDNS (_minichat._tcp) and list them
with the URL to connect to.

Relays only show up when started with 'mini-relay serve --advertise'.`,
	Example: `  mini scan
  mini scan --timeout 10`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(os.Stdout)
	p.PrintHeader("Relay scan", "mini scan", []ui.Detail{
		{Key: "Service", Value: discovery.ServiceType},
		{Key: "Timeout", Value: fmt.Sprintf("%ds", scanTimeout)},
	})

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	relays, err := scanner.Scan(cmd.Context())
	if err != nil {
		p.PrintError("Scan failed", err, []string{
			"Check that multicast is allowed on this network",
			"Connect directly with mini --server <URL>",
		})
		return errReported
	}

	p.PrintRelays(relays)
	return nil
}

// configCmd shows the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration",
	Long: `Print the configuration mini would use, with defaults filled in, and
where it was read from.`,
	Example: `  mini config
  mini config --path`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	if showPath {
		fmt.Println(path)
		return nil
	}

	p := ui.NewPrinter(os.Stdout)
	source := path
	if !configExists(path) {
		source = path + " (not created yet, run 'mini setup')"
	}
	p.PrintHeader("Configuration", source, configDetails(cfg, path))
	return nil
}

func configDetails(cfg *config.Config, path string) []ui.Detail {
	level := cfg.LogLevel
	if level == "" {
		level = "off"
	}
	logPath := cfg.LogFile
	if logPath == "" {
		if def, err := config.DefaultLogFile(); err == nil {
			logPath = def
		}
	}
	return []ui.Detail{
		{Key: "File", Value: path},
		{Key: "Nickname", Value: cfg.Nickname},
		{Key: "Server", Value: cfg.Server},
		{Key: "Channels", Value: strings.Join(cfg.Channels, ", ")},
		{Key: "Target", Value: cfg.Target},
		{Key: "Log level", Value: level},
		{Key: "Log file", Value: logPath},
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.Get("mini"))
	},
}
