package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/protocol"
)

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Defaults for a fresh install.
const (
	DefaultNickname = "program"
	DefaultServer   = "ws://localhost:6667/ws"
	DefaultTarget   = "#mini"
)

// DefaultChannels are joined when the file names none.
var DefaultChannels = []string{"#mini", "#rust"}

// Config is the client configuration file.
type Config struct {
	Version  int      `yaml:"version"`
	Nickname string   `yaml:"nickname"`
	Server   string   `yaml:"server"`              // ws:// or wss:// relay URL
	Channels []string `yaml:"channels"`            // Joined after connecting
	Target   string   `yaml:"target"`              // Where submitted lines are sent
	LogLevel string   `yaml:"log_level,omitempty"` // debug, info, warn or error; empty is silent
	LogFile  string   `yaml:"log_file,omitempty"`  // Defaults to mini.log in the config dir
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:  CurrentVersion,
		Nickname: DefaultNickname,
		Server:   DefaultServer,
		Channels: append([]string(nil), DefaultChannels...),
		Target:   DefaultTarget,
	}
}

// ApplyDefaults fills empty fields from Default.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Nickname == "" {
		c.Nickname = d.Nickname
	}
	if c.Server == "" {
		c.Server = d.Server
	}
	if len(c.Channels) == 0 {
		c.Channels = d.Channels
	}
	if c.Target == "" {
		c.Target = d.Target
	}
}

// Validate checks every field and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion))
	}
	if err := protocol.ValidateNick(c.Nickname); err != nil {
		errs = append(errs, fmt.Errorf("nickname: %w", err))
	}
	if err := ValidateServer(c.Server); err != nil {
		errs = append(errs, err)
	}
	for _, ch := range c.Channels {
		if !protocol.IsChannel(ch) {
			errs = append(errs, fmt.Errorf("channel %q must start with #", ch))
		}
	}
	if c.Target == "" {
		errs = append(errs, errors.New("target is required"))
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateServer checks a relay URL.
func ValidateServer(server string) error {
	u, err := url.Parse(server)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("server %q must use ws:// or wss://", server)
	}
	if u.Host == "" {
		return fmt.Errorf("server %q has no host", server)
	}
	return nil
}
