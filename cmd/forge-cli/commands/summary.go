package commands

import (
	"fmt"
	"os"

	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var summaryTracked *int64

func init() {
	summaryTracked = summaryCmd.Flags().Int64("tracked", 10, "Number of most-observed deals to show.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints per-category price statistics and the most tracked deals.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		count, err := store.Count(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to count rows", err)
		}
		fmt.Printf("%d observations stored\n\n", count)

		stats, err := store.CategorySummary(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to query category summary", err)
		}
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Category", "Deals", "Avg", "Min", "Max"})
		for _, s := range stats {
			t.AppendRow(table.Row{
				s.Category,
				s.Count,
				fmt.Sprintf("$%.2f", s.AvgPrice),
				fmt.Sprintf("$%.2f", s.MinPrice),
				fmt.Sprintf("$%.2f", s.MaxPrice),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		tracked, err := store.TrackedLinks(cmd.Context(), *summaryTracked)
		if err != nil {
			serviceutil.Fatal("failed to query tracked links", err)
		}
		t = table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Title", "Observations", "Link"})
		for _, link := range tracked {
			t.AppendRow(table.Row{
				textutil.Truncate(link.Title, 50),
				link.Observations,
				textutil.Truncate(link.Link, 60),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
