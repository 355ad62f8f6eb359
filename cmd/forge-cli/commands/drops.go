package commands

import (
	"fmt"
	"os"

	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var dropsLimit *int64

func init() {
	dropsLimit = dropsCmd.Flags().Int64("limit", 20, "Maximum number of drops to show.")
	rootCmd.AddCommand(dropsCmd)
}

var dropsCmd = &cobra.Command{
	Use:   "drops [--limit N]",
	Short: "Prints deals currently below their previous lowest observed price.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		drops, err := store.Drops(cmd.Context(), *dropsLimit)
		if err != nil {
			serviceutil.Fatal("failed to query price drops", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Title", "Now", "Was", "Drop", "Website", "Last Seen"})
		for _, drop := range drops {
			t.AppendRow(table.Row{
				textutil.Truncate(drop.Title, 60),
				fmt.Sprintf("$%.2f", drop.CurrentPrice),
				fmt.Sprintf("$%.2f", drop.LowestBefore),
				fmt.Sprintf("-%.1f%%", drop.DropPercent),
				drop.Website,
				drop.LastSeen.Format("2006-01-02 15:04"),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
