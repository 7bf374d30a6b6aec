// Package agent defines the request/response boundary to recommendation
// agents and ships the local agents plus an HTTP client for remote ones.
package agent

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/KaramelBytes/agenthub-cli/internal/classify"
)

// Agent turns a schema description and sample rows into recommendations.
type Agent interface {
	Analyze(ctx context.Context, req Request) (*Response, error)
}

// Provider identifiers used for selection.
const (
	ProviderRemote   = "remote"
	ProviderRules    = "rules"
	ProviderKeywords = "keywords"
)

// Factory builds an Agent from the generic config below.
type Factory func(Config) Agent

// Config carries the knobs shared by agent implementations.
type Config struct {
	// Remote
	Endpoint    string
	HTTPTimeout time.Duration
	RetryMax    int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Local
	Classifier classify.ColumnClassifier
	TopN       int
	Bins       int
	Logger     *slog.Logger
}

var registry = map[string]Factory{}

// Register associates a provider name with its factory.
func Register(name string, f Factory) { registry[name] = f }

// Get creates the Agent registered under name.
func Get(name string, cfg Config) (Agent, bool) {
	if f, ok := registry[name]; ok {
		return f(cfg), true
	}
	return nil, false
}

// Providers lists registered provider names in sorted order.
func Providers() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(ProviderRemote, func(c Config) Agent {
		return NewClient(c.Endpoint, c.HTTPTimeout, c.RetryMax, c.BaseDelay, c.MaxDelay)
	})
	Register(ProviderRules, func(c Config) Agent {
		return &RuleBased{Classifier: c.Classifier, TopN: c.TopN, Bins: c.Bins, Logger: c.Logger}
	})
	Register(ProviderKeywords, func(Config) Agent { return Keyword{} })
}
