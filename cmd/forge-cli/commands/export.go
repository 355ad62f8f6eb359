package commands

import (
	"log/slog"

	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/timezone"

	"github.com/spf13/cobra"
)

var exportOut *string
var exportAll *bool

func init() {
	exportOut = exportCmd.Flags().String("out", "", "Directory to write the csv into. Defaults to the configured export_dir.")
	exportAll = exportCmd.Flags().Bool("all", false, "Export full history instead of only the latest observations.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--out <dir>] [--all]",
	Short: "Writes deals to a timestamped csv file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		var deals []dealstore.Deal
		var err error
		if *exportAll {
			deals, err = store.All(cmd.Context())
		} else {
			deals, err = store.Latest(cmd.Context())
		}
		if err != nil {
			serviceutil.Fatal("failed to query deals", err)
		}

		dir := *exportOut
		if dir == "" {
			dir = cfg.ExportDir
		}
		if dir == "" {
			dir = "exports"
		}
		path, err := dealstore.Export(dir, deals, timezone.Now())
		if err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}
		slog.Info("exported", "path", path, "rows", len(deals))
	},
}
