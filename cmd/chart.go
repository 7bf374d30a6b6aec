package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/chart"
)

var (
	chX      string
	chY      string
	chAgg    string
	chTopN   int
	chBins   int
	chOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Build a single Vega-Lite chart specification",
}

var chartLineCmd = &cobra.Command{
	Use:   "line <file>",
	Short: "Mean of --y per distinct --x, sorted by time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chX == "" || chY == "" {
			return fmt.Errorf("--x and --y are required")
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		spec, err := chart.BuildLine(ds, chX, chY)
		if err != nil {
			return err
		}
		return writeJSON(cmd, spec, chOutput)
	},
}

var chartBarCmd = &cobra.Command{
	Use:   "bar <file>",
	Short: "Top-N categories of --x by aggregated --y",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chX == "" || chY == "" {
			return fmt.Errorf("--x and --y are required")
		}
		agg, err := chart.ParseAggregate(chAgg)
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		topN := chTopN
		if topN == 0 && cfg != nil {
			topN = cfg.TopN
		}
		spec, err := chart.BuildBar(ds, chX, chY, topN, agg)
		if err != nil {
			return err
		}
		return writeJSON(cmd, spec, chOutput)
	},
}

var chartHistogramCmd = &cobra.Command{
	Use:   "histogram <file>",
	Short: "Distribution of the numeric column --x",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chX == "" {
			return fmt.Errorf("--x is required")
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		bins := chBins
		if bins == 0 && cfg != nil {
			bins = cfg.HistogramBins
		}
		spec, err := chart.BuildHistogram(ds, chX, bins)
		if err != nil {
			return err
		}
		return writeJSON(cmd, spec, chOutput)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartLineCmd, chartBarCmd, chartHistogramCmd)
	pf := chartCmd.PersistentFlags()
	pf.StringVar(&chX, "x", "", "x column (time for line, category for bar, value for histogram)")
	pf.StringVar(&chY, "y", "", "numeric value column for line and bar")
	pf.StringVarP(&chOutput, "output", "o", "", "write the spec to this file instead of stdout")
	chartBarCmd.Flags().StringVar(&chAgg, "agg", "mean", "aggregate: mean|sum")
	chartBarCmd.Flags().IntVar(&chTopN, "top-n", 0, "number of categories to keep (overrides config)")
	chartHistogramCmd.Flags().IntVar(&chBins, "bins", 0, "maximum bins, clamped to 5-60 (overrides config)")
}

// writeJSON prints v as indented JSON, or writes it to path when set.
func writeJSON(cmd *cobra.Command, v any, path string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
