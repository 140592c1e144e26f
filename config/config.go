// Package config handles rill's configuration using Viper and supplies
// the policy predicates the core consults: window attach mode, cursor
// warp behavior, decoration filtering, and key repeat timing.
package config

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/spf13/viper"

	"deedles.dev/rill/stack"
)

// WarpPolicy controls when the compositor warps the cursor on behalf of
// the user.
type WarpPolicy int

const (
	WarpDisabled WarpPolicy = iota
	WarpOnOutputChange
)

// Config is the application configuration.
type Config struct {
	// AttachMode is where newly mapped windows enter the stack: "top" or
	// "bottom".
	AttachMode string `mapstructure:"attach_mode"`

	// WarpCursor is "disabled" or "on-output-change".
	WarpCursor string `mapstructure:"warp_cursor"`

	// LogLevel overrides the LOG_LEVEL environment variable.
	LogLevel string `mapstructure:"log_level"`

	Repeat RepeatConfig `mapstructure:"repeat"`

	// CSDFilter lists the windows permitted to draw their own
	// decorations.
	CSDFilter []FilterRule `mapstructure:"csd_filter"`
}

// RepeatConfig is the key-binding repeat timing.
type RepeatConfig struct {
	Rate  int `mapstructure:"rate"`  // repeats per second; 0 disables
	Delay int `mapstructure:"delay"` // milliseconds before the first repeat
}

// A FilterRule matches windows by app-id or title. Patterns use
// path.Match syntax; an empty field matches everything, but a rule may
// not leave both empty.
type FilterRule struct {
	AppID string `mapstructure:"app_id"`
	Title string `mapstructure:"title"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AttachMode: "top",
		WarpCursor: "on-output-change",
		Repeat:     RepeatConfig{Rate: 25, Delay: 600},
	}
}

// Load reads the configuration from file, or from the usual search
// paths if file is empty, layered over the defaults.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("rill")
	v.SetConfigType("toml")
	v.AddConfigPath("$XDG_CONFIG_HOME/rill")
	v.AddConfigPath("$HOME/.config/rill")
	v.AddConfigPath("/etc/rill")
	if file != "" {
		v.SetConfigFile(file)
	}

	def := Default()
	v.SetDefault("attach_mode", def.AttachMode)
	v.SetDefault("warp_cursor", def.WarpCursor)
	v.SetDefault("repeat.rate", def.Repeat.Rate)
	v.SetDefault("repeat.delay", def.Repeat.Delay)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the core would choke on.
func (c *Config) Validate() error {
	switch c.AttachMode {
	case "", "top", "bottom":
	default:
		return fmt.Errorf("config: invalid attach_mode %q", c.AttachMode)
	}
	switch c.WarpCursor {
	case "", "disabled", "on-output-change":
	default:
		return fmt.Errorf("config: invalid warp_cursor %q", c.WarpCursor)
	}
	if c.Repeat.Rate < 0 || c.Repeat.Delay < 0 {
		return fmt.Errorf("config: repeat rate and delay must not be negative")
	}
	for _, rule := range c.CSDFilter {
		if rule.AppID == "" && rule.Title == "" {
			return fmt.Errorf("config: csd_filter rule matches nothing")
		}
		for _, pat := range []string{rule.AppID, rule.Title} {
			if _, err := path.Match(pat, ""); err != nil {
				return fmt.Errorf("config: bad csd_filter pattern %q: %w", pat, err)
			}
		}
	}
	return nil
}

// Attach returns the stack end newly mapped windows are inserted at.
func (c *Config) Attach() stack.AttachMode {
	if c.AttachMode == "bottom" {
		return stack.AttachBottom
	}
	return stack.AttachTop
}

// Warp returns the cursor warp policy.
func (c *Config) Warp() WarpPolicy {
	if c.WarpCursor == "disabled" {
		return WarpDisabled
	}
	return WarpOnOutputChange
}

// AllowClientDecorations reports whether a window identified by appID
// and title may draw its own decorations.
func (c *Config) AllowClientDecorations(appID, title string) bool {
	for _, rule := range c.CSDFilter {
		if rule.matches(appID, title) {
			return true
		}
	}
	return false
}

func (r FilterRule) matches(appID, title string) bool {
	if r.AppID != "" {
		if ok, _ := path.Match(r.AppID, appID); !ok {
			return false
		}
	}
	if r.Title != "" {
		if ok, _ := path.Match(r.Title, title); !ok {
			return false
		}
	}
	return true
}

// RepeatTiming returns the delay before the first key repeat and the
// interval between repeats. ok is false if repeating is disabled.
func (c *Config) RepeatTiming() (delay, interval time.Duration, ok bool) {
	if c.Repeat.Rate <= 0 {
		return 0, 0, false
	}
	delay = time.Duration(c.Repeat.Delay) * time.Millisecond
	interval = time.Second / time.Duration(c.Repeat.Rate)
	return delay, interval, true
}
