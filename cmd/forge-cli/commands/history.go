package commands

import (
	"os"

	"dealforge-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <link>",
	Short: "Prints every observation of a deal, oldest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		history, err := store.History(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to query deal history", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Scraped", "Price", "Original", "Discount", "Active"})
		for _, deal := range history {
			t.AppendRow(table.Row{
				deal.ScrapedAt.Format("2006-01-02 15:04"),
				priceCell(deal.PriceNumeric),
				priceCell(deal.OriginalPrice),
				percentCell(deal.DiscountPercent),
				deal.Active,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
