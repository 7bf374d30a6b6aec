package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/dashboard"
)

var (
	dashClassifier string
	dashTopN       int
	dashBins       int
	dashOutput     string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <file>",
	Short: "Compose the default line, bar and histogram charts for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		c, err := classifierFromConfig(dashClassifier)
		if err != nil {
			return err
		}
		comp := dashboard.New(c, logger)
		comp.TopN, comp.Bins = dashTopN, dashBins
		if cfg != nil {
			if comp.TopN == 0 {
				comp.TopN = cfg.TopN
			}
			if comp.Bins == 0 {
				comp.Bins = cfg.HistogramBins
			}
		}
		d := comp.Compose(ds)
		if len(d.Charts) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠ No charts could be built for this dataset")
		}
		return writeJSON(cmd, d, dashOutput)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashClassifier, "classifier", "", "classification strategy: value|value-lenient|name (overrides config)")
	dashboardCmd.Flags().IntVar(&dashTopN, "top-n", 0, "categories kept in the bar chart (overrides config)")
	dashboardCmd.Flags().IntVar(&dashBins, "bins", 0, "histogram bins (overrides config)")
	dashboardCmd.Flags().StringVarP(&dashOutput, "output", "o", "", "write the dashboard to this file instead of stdout")
}
