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

var listMinPrice *float64
var listMaxPrice *float64
var listKeywords *[]string
var listExclude *[]string
var listCategories *[]string
var listInStock *bool

func init() {
	listMinPrice = listCmd.Flags().Float64("min-price", 0, "Keep deals priced at or above this.")
	listMaxPrice = listCmd.Flags().Float64("max-price", 0, "Keep deals priced at or below this.")
	listKeywords = listCmd.Flags().StringSlice("keyword", nil, "Keep deals whose title contains any of these.")
	listExclude = listCmd.Flags().StringSlice("exclude", nil, "Drop deals whose title contains any of these.")
	listCategories = listCmd.Flags().StringSlice("category", nil, "Keep deals in these categories.")
	listInStock = listCmd.Flags().Bool("in-stock", false, "Keep only deals known to be in stock.")
	rootCmd.AddCommand(listCmd)
}

// flags override the config file's filter block when set
func listFilter(cmd *cobra.Command, cfg Config) pipeline.FilterOptions {
	opts := cfg.Filter
	if cmd.Flags().Changed("min-price") {
		opts.MinPrice = listMinPrice
	}
	if cmd.Flags().Changed("max-price") {
		opts.MaxPrice = listMaxPrice
	}
	if cmd.Flags().Changed("keyword") {
		opts.Keywords = *listKeywords
	}
	if cmd.Flags().Changed("exclude") {
		opts.ExcludeKeywords = *listExclude
	}
	if cmd.Flags().Changed("category") {
		opts.Categories = *listCategories
	}
	if cmd.Flags().Changed("in-stock") {
		opts.InStockOnly = *listInStock
	}
	return opts
}

var listCmd = &cobra.Command{
	Use:   "list [--min-price N] [--max-price N] [--keyword K]...",
	Short: "Prints the latest observation of every active deal, filtered.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		deals, err := store.Latest(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to query latest deals", err)
		}
		deals = pipeline.Filter(deals, listFilter(cmd, cfg))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Title", "Price", "Discount", "Category", "Website", "Seen"})
		for _, deal := range deals {
			t.AppendRow(table.Row{
				textutil.Truncate(deal.Title, 60),
				priceCell(deal.PriceNumeric),
				percentCell(deal.DiscountPercent),
				deal.Category,
				deal.Website,
				deal.ScrapedAt.Format("2006-01-02 15:04"),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func priceCell(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *price)
}

func percentCell(percent *float64) string {
	if percent == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *percent)
}
