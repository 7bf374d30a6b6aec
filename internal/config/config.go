package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".agenthub"

// Global configuration structure.
type Global struct {
	AgentProvider string `mapstructure:"agent_provider" yaml:"agent_provider"`
	AgentEndpoint string `mapstructure:"agent_endpoint" yaml:"agent_endpoint"`
	Classifier    string `mapstructure:"classifier" yaml:"classifier"`
	TopN          int    `mapstructure:"top_n" yaml:"top_n"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	ListenAddr    string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// Loading
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Thousands string `mapstructure:"thousands" yaml:"thousands"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

var defaults = map[string]any{
	"agent_provider":      "rules",
	"agent_endpoint":      "http://localhost:8000/agent",
	"classifier":          "value",
	"top_n":               10,
	"histogram_bins":      30,
	"listen_addr":         ":8000",
	"max_rows":            100000,
	"decimal":             ".",
	"thousands":           "",
	"log_level":           "info",
	"log_format":          "text",
	"http_timeout_sec":    60,
	"retry_max_attempts":  3,
	"retry_base_delay_ms": 500,
	"retry_max_delay_ms":  4000,
}

// Keys lists every configuration key in sorted order.
func Keys() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultPath returns ~/.agenthub/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.agenthub/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// FREESTYLE_ENDPOINT is honored as an alias for AGENTHUB_AGENT_ENDPOINT.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AGENTHUB")
	v.AutomaticEnv()
	_ = v.BindEnv("agent_endpoint", "AGENTHUB_AGENT_ENDPOINT", "FREESTYLE_ENDPOINT")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns key from its string form, validating the value.
func (c *Global) Set(key, val string) error {
	switch key {
	case "agent_provider":
		p := strings.ToLower(strings.TrimSpace(val))
		switch p {
		case "remote", "rules", "keywords":
			c.AgentProvider = p
		default:
			return fmt.Errorf("invalid agent_provider: %s (use remote, rules or keywords)", val)
		}
	case "agent_endpoint":
		if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("invalid agent_endpoint: %s (must be an http(s) URL)", val)
		}
		c.AgentEndpoint = val
	case "classifier":
		s := strings.ToLower(strings.TrimSpace(val))
		switch s {
		case "value", "value-lenient", "name":
			c.Classifier = s
		default:
			return fmt.Errorf("invalid classifier: %s (use value, value-lenient or name)", val)
		}
	case "listen_addr":
		c.ListenAddr = val
	case "decimal":
		if val != "auto" && len([]rune(val)) != 1 {
			return fmt.Errorf("invalid decimal: %q (single character or auto)", val)
		}
		c.Decimal = val
	case "thousands":
		if len([]rune(val)) > 1 {
			return fmt.Errorf("invalid thousands: %q (single character or empty)", val)
		}
		c.Thousands = val
	case "log_level":
		l := strings.ToLower(val)
		switch l {
		case "debug", "info", "warn", "error":
			c.LogLevel = l
		default:
			return fmt.Errorf("invalid log_level: %s", val)
		}
	case "log_format":
		f := strings.ToLower(val)
		if f != "text" && f != "json" {
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
		c.LogFormat = f
	default:
		i, err := strconv.Atoi(val)
		target := c.intField(key)
		if target == nil {
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*target = i
	}
	return nil
}

func (c *Global) intField(key string) *int {
	switch key {
	case "top_n":
		return &c.TopN
	case "histogram_bins":
		return &c.HistogramBins
	case "max_rows":
		return &c.MaxRows
	case "http_timeout_sec":
		return &c.HTTPTimeoutSec
	case "retry_max_attempts":
		return &c.RetryMaxAttempts
	case "retry_base_delay_ms":
		return &c.RetryBaseDelayMs
	case "retry_max_delay_ms":
		return &c.RetryMaxDelayMs
	}
	return nil
}
