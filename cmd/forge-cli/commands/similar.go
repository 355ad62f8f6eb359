package commands

import (
	"fmt"
	"os"

	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/textutil"
	"dealforge-backend/services/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var similarMinScore *float64

func init() {
	similarMinScore = similarCmd.Flags().Float64("min-score", 0.9, "Minimum title similarity in [0, 1].")
	rootCmd.AddCommand(similarCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar [--min-score N]",
	Short: "Finds the same product listed on different sites, for price comparison.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		deals, err := store.Latest(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to query latest deals", err)
		}

		pairs := pipeline.FindSimilar(deals, *similarMinScore)
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Score", "Title", "Site A", "Price A", "Site B", "Price B"})
		for _, pair := range pairs {
			t.AppendRow(table.Row{
				fmt.Sprintf("%.3f", pair.Score),
				textutil.Truncate(pair.A.Title, 50),
				pair.A.Website,
				priceCell(pair.A.PriceNumeric),
				pair.B.Website,
				priceCell(pair.B.PriceNumeric),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
