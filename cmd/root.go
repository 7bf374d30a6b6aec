package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/classify"
	cfgpkg "github.com/KaramelBytes/agenthub-cli/internal/config"
	"github.com/KaramelBytes/agenthub-cli/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is rebuilt from cfg on every invocation.
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "AgentHub CLI: infer column roles and chart specs from tabular data",
	Long: `AgentHub reads CSV, TSV and XLSX files, classifies every column as temporal,
numeric or categorical, and builds Vega-Lite chart specifications. It can also
send the schema and sample rows to a recommendation agent, or serve one.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.agenthub/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max attempts on 429/5xx/network errors (overrides config)")
	pf.IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	pf.IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
	addLoadFlags(pf)
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so local commands keep working
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("log-format") && logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger = logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Debug: debug})
	logger.Debug("config loaded", "agent_provider", cfg.AgentProvider, "classifier", cfg.Classifier)
}

func classifierFromConfig(override string) (classify.ColumnClassifier, error) {
	name := override
	if name == "" && cfg != nil {
		name = cfg.Classifier
	}
	c, err := classify.New(name)
	if err != nil {
		return nil, err
	}
	nf, err := numberFormat()
	if err != nil {
		return nil, err
	}
	switch v := c.(type) {
	case *classify.ValueBasedClassifier:
		v.Number = nf
	case *classify.NameHeuristicClassifier:
		v.Number = nf
	}
	return c, nil
}

func httpTimeout() time.Duration {
	if cfg == nil || cfg.HTTPTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(cfg.HTTPTimeoutSec) * time.Second
}

func retrySettings() (int, time.Duration, time.Duration) {
	if cfg == nil {
		return 0, 0, 0
	}
	return cfg.RetryMaxAttempts,
		time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
}
