// Package config loads weaversite settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"time"

	"github.com/weaver-tableqa/weaversite/internal/site"
)

// Config holds all CLI configuration options.
type Config struct {
	Port     int  `koanf:"port"`
	Dev      bool `koanf:"dev"`
	AutoOpen bool `koanf:"auto_open"`
	// CatalogPath overrides the embedded site content
	CatalogPath  string        `koanf:"catalog_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Session      SessionConfig `koanf:"session"`
	Timing       TimingConfig  `koanf:"timing"`
	Reveal       RevealConfig  `koanf:"reveal"`
	Log          LogConfig     `koanf:"log"`

	// File is the config file that was read, if any
	File string `koanf:"-"`
}

// SessionConfig holds visitor session settings.
type SessionConfig struct {
	Secret      string        `koanf:"secret"`
	IdleTimeout time.Duration `koanf:"idle_timeout"`
	// Secure sets the Secure cookie attribute; leave off for plain HTTP
	Secure bool `koanf:"secure"`
}

// TimingConfig holds the animation delays.
type TimingConfig struct {
	StepDelay     time.Duration `koanf:"step_delay"`
	TrailingDelay time.Duration `koanf:"trailing_delay"`
	CopyRevert    time.Duration `koanf:"copy_revert"`
}

// RevealConfig holds the scroll reveal settings.
type RevealConfig struct {
	Threshold float64       `koanf:"threshold"`
	Stagger   time.Duration `koanf:"stagger"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"`
	// File receives JSON logs in addition to the console
	File string `koanf:"file"`
}

// Default configuration values.
const (
	DefaultPort   = 8080
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLevel  = "info"
	EnvPrefix     = "WEAVERSITE_"
)

// defaults returns the base layer every other source overrides.
func defaults() map[string]any {
	sc := site.DefaultConfig()
	return map[string]any{
		"port":                  DefaultPort,
		"dev":                   false,
		"auto_open":             false,
		"catalog_path":          "",
		"verbose":               false,
		"output":                DefaultOutput,
		"session.secret":        "",
		"session.idle_timeout":  site.DefaultIdleTimeout.String(),
		"session.secure":        false,
		"timing.step_delay":     sc.Timing.StepDelay.String(),
		"timing.trailing_delay": sc.Timing.TrailingDelay.String(),
		"timing.copy_revert":    sc.CopyRevert.String(),
		"reveal.threshold":      sc.RevealThreshold,
		"reveal.stagger":        sc.RevealStagger.String(),
		"log.level":             DefaultLevel,
		"log.file":              "",
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	sc := site.DefaultConfig()
	return &Config{
		Port:         DefaultPort,
		OutputFormat: DefaultOutput,
		Session:      SessionConfig{IdleTimeout: site.DefaultIdleTimeout},
		Timing: TimingConfig{
			StepDelay:     sc.Timing.StepDelay,
			TrailingDelay: sc.Timing.TrailingDelay,
			CopyRevert:    sc.CopyRevert,
		},
		Reveal: RevealConfig{Threshold: sc.RevealThreshold, Stagger: sc.RevealStagger},
		Log:    LogConfig{Level: DefaultLevel},
	}
}

// SiteConfig returns the page timings the configuration selects.
func (c *Config) SiteConfig() site.Config {
	cfg := site.DefaultConfig()
	cfg.Timing.StepDelay = c.Timing.StepDelay
	cfg.Timing.TrailingDelay = c.Timing.TrailingDelay
	cfg.CopyRevert = c.Timing.CopyRevert
	cfg.RevealThreshold = c.Reveal.Threshold
	cfg.RevealStagger = c.Reveal.Stagger
	return cfg
}
