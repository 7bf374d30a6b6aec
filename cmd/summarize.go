package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/agenthub-cli/internal/schema"
)

var sumJSON bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Print the schema description and sample rows of a tabular file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		s, err := schema.Summarize(ds)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if sumJSON {
			b, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		fmt.Fprintf(out, "Schema (%d rows x %d columns):\n", ds.NumRows(), ds.NumCols())
		fmt.Fprintln(out, s.SchemaText)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Sample rows (first %d):\n", schema.SampleRows)
		fmt.Fprint(out, s.SampleText)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().BoolVar(&sumJSON, "json", false, "print the summary as JSON")
}
