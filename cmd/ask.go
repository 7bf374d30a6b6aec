package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/agent"
	"github.com/KaramelBytes/agenthub-cli/internal/schema"
)

var (
	askProvider   string
	askEndpoint   string
	askClassifier string
	askNoFallback bool
	askOutput     string
)

var askCmd = &cobra.Command{
	Use:   "ask <file>",
	Short: "Send the schema and sample rows of a file to a recommendation agent",
	Long: `Summarize a tabular file and ask an agent for a summary, suggested visuals
and chart specs. Providers: remote (HTTP endpoint), rules (local classifier and
chart builder) and keywords (column-name rules). Remote failures fall back to an
empty answer unless --no-fallback is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		s, err := schema.Summarize(ds)
		if err != nil {
			return err
		}
		name, a, err := buildAgent(askProvider, askEndpoint, askClassifier)
		if err != nil {
			return err
		}
		if !askNoFallback {
			a = agent.WithFallback(a, logger)
		}
		logger.Debug("asking agent", "provider", name, "columns", ds.NumCols())
		resp, err := a.Analyze(cmd.Context(), agent.Request{SchemaDescription: s.SchemaText, SampleRows: s.SampleText})
		if err != nil {
			return err
		}
		if askOutput != "" {
			return writeJSON(cmd, resp, askOutput)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Agent: %s\n\n", name)
		if resp.Summary != "" {
			fmt.Fprintln(out, resp.Summary)
			fmt.Fprintln(out)
		}
		if len(resp.SuggestedVisuals) > 0 {
			fmt.Fprintln(out, "Suggested visuals:")
			for _, v := range resp.SuggestedVisuals {
				fmt.Fprintf(out, "  - %s\n", v)
			}
		}
		fmt.Fprintf(out, "Chart specs: %d (use -o to save them)\n", len(resp.ChartSpecs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askProvider, "agent", "", "agent provider: "+strings.Join(agent.Providers(), "|")+" (overrides config)")
	askCmd.Flags().StringVar(&askEndpoint, "endpoint", "", "remote agent endpoint (overrides config)")
	askCmd.Flags().StringVar(&askClassifier, "classifier", "", "classification strategy for the rules agent")
	askCmd.Flags().BoolVar(&askNoFallback, "no-fallback", false, "report agent errors instead of returning an empty answer")
	askCmd.Flags().StringVarP(&askOutput, "output", "o", "", "write the full response as JSON to this file")
}

// buildAgent resolves the provider name and constructs it from cfg plus overrides.
func buildAgent(provider, endpoint, classifier string) (string, agent.Agent, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == "" && cfg != nil {
		name = cfg.AgentProvider
	}
	if name == "" {
		name = agent.ProviderRules
	}
	c, err := classifierFromConfig(classifier)
	if err != nil {
		return "", nil, err
	}
	ac := agent.Config{Endpoint: endpoint, HTTPTimeout: httpTimeout(), Classifier: c, Logger: logger}
	ac.RetryMax, ac.BaseDelay, ac.MaxDelay = retrySettings()
	if cfg != nil {
		if ac.Endpoint == "" {
			ac.Endpoint = cfg.AgentEndpoint
		}
		ac.TopN, ac.Bins = cfg.TopN, cfg.HistogramBins
	}
	a, ok := agent.Get(name, ac)
	if !ok {
		return "", nil, fmt.Errorf("unknown agent provider: %s (use %s)", name, strings.Join(agent.Providers(), ", "))
	}
	return name, a, nil
}
