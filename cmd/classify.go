package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	clsStrategy string
	clsJSON     bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify each column as temporal, numeric or categorical",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		c, err := classifierFromConfig(clsStrategy)
		if err != nil {
			return err
		}
		res, err := c.Classify(ds)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if clsJSON {
			b, err := json.MarshalIndent(res.Roles(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Column", "Type", "Role", "Missing"})
		for _, col := range res.Working.Columns() {
			role, _ := res.Role(col.Name)
			t.AppendRow(table.Row{col.Name, col.Type(), role, col.MissingCount()})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&clsStrategy, "classifier", "", "classification strategy: value|value-lenient|name (overrides config)")
	classifyCmd.Flags().BoolVar(&clsJSON, "json", false, "print the column roles as JSON")
}
