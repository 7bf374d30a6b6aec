package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/agent"
	"github.com/KaramelBytes/agenthub-cli/internal/server"
)

var (
	srvAddr       string
	srvProvider   string
	srvClassifier string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent HTTP API",
	Long: `Start an HTTP server exposing:
  GET  /health      liveness and active agent
  POST /agent       {schema_description, sample_rows} -> {summary, suggested_visuals, chart_specs}
  POST /summarize   CSV body -> {schema_text, sample_text}
  POST /dashboard   CSV body -> default dashboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := srvProvider
		if provider == "" {
			provider = agent.ProviderRules
		}
		name, a, err := buildAgent(provider, "", srvClassifier)
		if err != nil {
			return err
		}
		c, err := classifierFromConfig(srvClassifier)
		if err != nil {
			return err
		}
		opt, err := loadOptions()
		if err != nil {
			return err
		}
		addr := srvAddr
		if addr == "" && cfg != nil {
			addr = cfg.ListenAddr
		}
		sc := server.Config{Addr: addr, Agent: a, AgentName: name, Classifier: c, Load: opt, Logger: logger}
		if cfg != nil {
			sc.TopN, sc.Bins = cfg.TopN, cfg.HistogramBins
		}

		ctx, stop := signal.NotifyContext(parentContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(sc).Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (overrides config listen_addr)")
	serveCmd.Flags().StringVar(&srvProvider, "agent", "", "agent provider answering POST /agent (default rules)")
	serveCmd.Flags().StringVar(&srvClassifier, "classifier", "", "classification strategy (overrides config)")
}

func parentContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
