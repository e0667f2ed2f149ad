// Package cmd provides the command-line interface for RoverCrawler.
// It handles flag parsing, configuration layering, the interactive prompt
// and the wiring between the crawl engine and its output collaborators.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/masahif/rovercrawler/internal/config"
	"github.com/masahif/rovercrawler/internal/crawler"
	"github.com/masahif/rovercrawler/internal/logging"
	"github.com/masahif/rovercrawler/internal/report"
	"github.com/masahif/rovercrawler/internal/storage"
)

var (
	cfgFile   string
	version   = "dev"
	buildTime string
)

// NewRootCommand builds the base command. Each call returns a command with
// fresh flag state bound to viper.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rovercrawler [URL]",
		Short: "A breadth-first web crawler for site structure mapping",
		Long: `RoverCrawler walks a website breadth-first from a seed URL and prints
the discovered site structure as a tree.

Run it without a URL on a terminal to be asked for the settings interactively.`,
		Example: `  rovercrawler https://example.com -d 4 -v --external
  rovercrawler https://example.com --export-json results.json`,
		Version:       versionString(),
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCrawler,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./rovercrawler.yml or "+filepath.Join(config.XDGConfigDir(), "rovercrawler.yml")+")")

	addFlags(cmd)
	bindFlags(cmd)
	return cmd
}

// Execute builds the root command and runs it with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
}

func versionString() string {
	return fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)
}

// addFlags defines the run flags on cmd
func addFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")
	cmd.Flags().Bool("last-run", false, "Show the latest run recorded in --database and exit")

	// Crawl flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth, "Maximum crawl depth")
	cmd.Flags().IntP("pages", "p", config.DefaultMaxPages, "Maximum pages to crawl")
	cmd.Flags().BoolP("external", "e", false, "Follow external links (outside domain)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultRequestTimeout, "HTTP request timeout")
	cmd.Flags().Duration("rate-limit", config.DefaultRateLimit, "Minimum delay between requests")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent, "HTTP User-Agent header")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum bytes read per response")

	// Output flags
	cmd.Flags().String("export-json", "", "Export results to JSON file")
	cmd.Flags().String("export-txt", "", "Export results to text file")
	cmd.Flags().String("export-md", "", "Export results to Markdown file")
	cmd.Flags().String("export-csv", "", "Export parent/child edges to CSV file")
	cmd.Flags().String("database", "", "Record the crawl run to a SQLite database")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("no-banner", false, "Don't show the banner")

	// Logging flags
	cmd.Flags().String("log-file", "", "Write JSON logs to a size-rotated file")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
}

// flagBindings maps viper keys to flag names
var flagBindings = []struct {
	viperKey string
	flagName string
}{
	{"max_depth", "depth"},
	{"max_pages", "pages"},
	{"follow_external", "external"},
	{"request_timeout", "timeout"},
	{"rate_limit", "rate-limit"},
	{"user_agent", "user-agent"},
	{"verbose", "verbose"},
	{"max_body_size", "max-body-size"},
	{"export_json", "export-json"},
	{"export_text", "export-txt"},
	{"export_markdown", "export-md"},
	{"export_csv", "export-csv"},
	{"database_path", "database"},
	{"no_color", "no-color"},
	{"no_banner", "no-banner"},
	{"log_file", "log-file"},
	{"log_level", "log-level"},
}

func bindFlags(cmd *cobra.Command) {
	for _, bind := range flagBindings {
		if err := viper.BindPFlag(bind.viperKey, cmd.Flags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(config.XDGConfigDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.AppName)
	}

	viper.SetEnvPrefix("RC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func generateUserAgent() string {
	if version != "" && version != "dev" {
		return fmt.Sprintf("RoverCrawler/%s", version)
	}
	return config.DefaultUserAgent
}

// loadConfig layers defaults, config file, environment and flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !cmd.Flags().Changed("user-agent") && cfg.UserAgent == config.DefaultUserAgent {
		cfg.UserAgent = generateUserAgent()
	}

	return cfg, nil
}

func showCurrentConfig(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Configuration validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Displaying configuration anyway...\n\n")
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Fprintf(w, "# Current RoverCrawler Configuration\n")
	fmt.Fprintf(w, "# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Configuration file search paths: ./rovercrawler.yml, %s\n",
		filepath.Join(config.XDGConfigDir(), "rovercrawler.yml"))
	fmt.Fprintf(w, "# Environment variables prefix: RC_\n\n")

	fmt.Fprint(w, string(yamlData))

	fmt.Fprintf(w, "\n# Configuration source priority:\n")
	fmt.Fprintf(w, "# 1. Command-line arguments (highest priority)\n")
	fmt.Fprintf(w, "# 2. Environment variables (RC_ prefix)\n")
	fmt.Fprintf(w, "# 3. Configuration file (rovercrawler.yml)\n")
	fmt.Fprintf(w, "# 4. Default values (lowest priority)\n")

	return nil
}

func runCrawler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if showConfig, _ := cmd.Flags().GetBool("show-config"); showConfig {
		return showCurrentConfig(cmd.OutOrStdout(), cfg)
	}

	out := cmd.OutOrStdout()
	palette := report.NewPalette(cfg.NoColor)

	if lastRun, _ := cmd.Flags().GetBool("last-run"); lastRun {
		return showLastRun(out, cfg.DatabasePath, palette)
	}

	if !cfg.NoBanner {
		report.WriteBanner(out, version, palette)
	}

	var seed string
	switch {
	case len(args) > 0:
		seed = args[0]
		if err := config.ValidateSeedURL(seed); err != nil {
			return err
		}
	case stdinIsTerminal():
		seed, err = NewPrompter(cmd.InOrStdin(), out, palette).Run(cfg)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no URL provided: %w", config.ErrInvalidSeedURL)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCloser, err := logging.SetDefault(logging.Config{
		Level:      logging.ResolveLevel(cfg.LogLevel, cfg.Verbose),
		FilePath:   cfg.LogFile,
		MaxSize:    logging.DefaultConfig().MaxSize,
		MaxBackups: logging.DefaultConfig().MaxBackups,
		Console:    true,
		Output:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, seed, out, palette)
}

// run crawls seed with cfg and renders the result to out
func run(ctx context.Context, cfg *config.Config, seed string, out io.Writer, palette *report.Palette) error {
	var opts []crawler.Option

	var store *storage.SQLiteStorage
	if cfg.DatabasePath != "" {
		var err error
		store, err = openStorage(cfg, seed)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, crawler.WithRecorder(store))
	}

	c, err := crawler.New(cfg.CrawlConfig, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize crawler: %w", err)
	}
	defer func() { _ = c.Close() }()

	result, err := c.Crawl(ctx, seed)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.FinishRun(result.Stats, result.Interrupted); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if err := report.WriteStructure(out, result, palette); err != nil {
		return err
	}
	report.WriteStats(out, result.Stats, palette)

	rep := report.NewReport(result, c.Config().MaxDepth)
	if targets := exportTargets(cfg); len(targets) > 0 {
		if err := rep.ExportAll(targets); err != nil {
			_, _ = palette.Error.Fprintf(out, "[!] %v\n", err)
		} else {
			for _, target := range targets {
				_, _ = palette.Info.Fprintf(out, "[✓] Results exported to %s\n", target.Path)
			}
		}
	}

	if store != nil {
		_, _ = palette.Dim.Fprintf(out, "Run %s recorded to %s\n", store.RunID(), cfg.DatabasePath)
	}

	report.WriteSummary(out, result, palette)
	return nil
}

// showLastRun prints the most recent run stored in dbPath
func showLastRun(w io.Writer, dbPath string, palette *report.Palette) error {
	if dbPath == "" {
		return fmt.Errorf("--last-run requires --database")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	run, err := store.LatestRun()
	if err != nil {
		return err
	}
	pages, err := store.CountPages(run.ID)
	if err != nil {
		return err
	}
	errCount, err := store.CountErrors(run.ID)
	if err != nil {
		return err
	}

	report.WriteRun(w, run, pages, errCount, palette)
	return nil
}

func openStorage(cfg *config.Config, seed string) (*storage.SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if _, err := store.StartRun(seed, cfg.CrawlConfig); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func exportTargets(cfg *config.Config) []report.Target {
	candidates := []report.Target{
		{Format: report.FormatJSON, Path: cfg.ExportJSON},
		{Format: report.FormatText, Path: cfg.ExportText},
		{Format: report.FormatMarkdown, Path: cfg.ExportMarkdown},
		{Format: report.FormatCSV, Path: cfg.ExportCSV},
	}

	var targets []report.Target
	for _, t := range candidates {
		if t.Path != "" {
			targets = append(targets, t)
		}
	}
	return targets
}
