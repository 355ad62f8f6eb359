package commands

import (
	"log/slog"

	"dealforge-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var deactivateRestore *bool

func init() {
	deactivateRestore = deactivateCmd.Flags().Bool("restore", false, "Mark the deal active again instead.")
	rootCmd.AddCommand(deactivateCmd)
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <link> [--restore]",
	Short: "Marks a delisted deal inactive without deleting its history.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		active := *deactivateRestore
		err := store.SetActive(cmd.Context(), args[0], active)
		if err != nil {
			serviceutil.Fatal("failed to update deal", err)
		}
		slog.Info("updated deal", "link", args[0], "active", active)
	},
}
