package commands

import (
	"fmt"
	"time"

	"sptoday-backend/services/market/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <currencies|gold|crypto> [name]",
	Short: "Prints recorded snapshots for a category, or the names it has seen.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := readConfig()
		if cfg.HistoryDb == "" {
			return fmt.Errorf("history_db is not configured")
		}

		database, err := db.Open(cfg.HistoryDb)
		if err != nil {
			return err
		}
		defer database.Close()
		queries := db.New(database)

		if len(args) == 1 {
			names, err := queries.GetNames(ctx, args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		}

		rows, err := queries.GetHistory(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Time", "Run", "Buy", "Sell", "Price"})
		for _, r := range rows {
			t.AppendRow(table.Row{
				time.Unix(r.Time, 0).Local().Format(time.DateTime),
				r.RunId,
				orDash(r.Buy),
				orDash(r.Sell),
				orDash(r.Price),
			})
		}
		t.Render()
		return nil
	},
}
