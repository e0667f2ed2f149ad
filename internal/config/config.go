// Package config provides configuration management for the crawler.
// It defines the crawl bundle handed to the engine, the settings of the
// surrounding command (exports, rendering, logging) and their defaults.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for the config file name, the XDG directory and the env prefix.
const AppName = "rovercrawler"

// Default values
const (
	DefaultMaxDepth       = 3
	DefaultMaxPages       = 100
	DefaultRequestTimeout = 10 * time.Second
	DefaultRateLimit      = 500 * time.Millisecond
	DefaultUserAgent      = "RoverCrawler/dev"
	DefaultMaxBodySize    = 10 * 1024 * 1024 // 10MB
	DefaultLogLevel       = "info"
)

// CrawlConfig is the configuration bundle consumed by the crawl engine.
// It is passed by value; the engine never writes to it.
type CrawlConfig struct {
	MaxDepth       int           `mapstructure:"max_depth" yaml:"max_depth"`             // Deepest level that is fetched (seed is depth 0)
	MaxPages       int           `mapstructure:"max_pages" yaml:"max_pages"`             // Ceiling on visited pages
	FollowExternal bool          `mapstructure:"follow_external" yaml:"follow_external"` // Admit hosts other than the seed host
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Per-request timeout
	RateLimit      time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`           // Minimum interval between fetch starts
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header
	Verbose        bool          `mapstructure:"verbose" yaml:"verbose"`                 // Per-fetch diagnostics
	MaxBodySize    int64         `mapstructure:"max_body_size" yaml:"max_body_size"`     // Bytes read per response
}

// Config holds everything the command needs for one run: the crawl
// bundle plus the settings of the collaborators around the engine.
type Config struct {
	CrawlConfig `mapstructure:",squash" yaml:",inline"`

	// Result recording
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"` // SQLite results log, empty disables it

	// Export targets, empty disables the format
	ExportJSON     string `mapstructure:"export_json" yaml:"export_json"`
	ExportText     string `mapstructure:"export_text" yaml:"export_text"`
	ExportMarkdown string `mapstructure:"export_markdown" yaml:"export_markdown"`
	ExportCSV      string `mapstructure:"export_csv" yaml:"export_csv"`

	// Terminal rendering
	NoColor  bool `mapstructure:"no_color" yaml:"no_color"`
	NoBanner bool `mapstructure:"no_banner" yaml:"no_banner"`

	// Logging
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultCrawlConfig returns the engine defaults.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxDepth:       DefaultMaxDepth,
		MaxPages:       DefaultMaxPages,
		FollowExternal: false,
		RequestTimeout: DefaultRequestTimeout,
		RateLimit:      DefaultRateLimit,
		UserAgent:      DefaultUserAgent,
		Verbose:        false,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		CrawlConfig: DefaultCrawlConfig(),
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks if the crawl bundle is usable by the engine.
func (c CrawlConfig) Validate() error {
	if c.MaxDepth < 1 {
		return ErrInvalidMaxDepth
	}

	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	if strings.TrimSpace(c.UserAgent) == "" {
		return ErrEmptyUserAgent
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// Validate checks the crawl bundle and the collaborator settings.
func (c *Config) Validate() error {
	if err := c.CrawlConfig.Validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// ValidateSeedURL checks that a seed is an absolute http(s) URL with a host.
func ValidateSeedURL(seed string) error {
	u, err := url.Parse(seed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeedURL, err)
	}

	if !strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https") {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidSeedURL, seed)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidSeedURL, seed)
	}

	return nil
}

// XDGConfigDir returns the per-user config directory searched for rovercrawler.yml.
// On Linux: ~/.config/rovercrawler
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
