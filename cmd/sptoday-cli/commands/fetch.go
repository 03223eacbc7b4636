package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var fetchBrowser *bool

func init() {
	fetchBrowser = fetchCmd.Flags().Bool("browser", false, "Fetch pages through headless chrome instead of plain http.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Runs one fetch cycle and writes the category json files.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()

		svc, cleanup := buildService(ctx, cfg, *fetchBrowser)
		defer cleanup()

		start := time.Now()
		if err := svc.FetchAll(ctx); err != nil {
			slog.Error("some categories failed", "err", err)
		}
		slog.Info(
			"fetch cycle complete",
			"seconds", time.Since(start).Seconds(),
			"data_dir", cfg.DataDir,
		)
	},
}
