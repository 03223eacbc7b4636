package commands

import (
	"fmt"
	"time"

	"sptoday-backend/services/market"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <currencies|gold|crypto>",
	Short: "Prints the last persisted records for a category.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := readConfig()
		store := market.NewStore(cfg.DataDir)

		switch market.Category(args[0]) {
		case market.CategoryCurrencies:
			doc, err := store.ReadCurrencies()
			if err != nil {
				return err
			}
			printUpdated(doc.LastUpdate, doc.Source)

			t := newTable()
			t.AppendHeader(table.Row{"Name", "Code", "Buy", "Sell", "Average", "Spread", "Spread %"})
			for _, r := range doc.Rates {
				t.AppendRow(table.Row{r.Name, r.Code, r.Buy, r.Sell, r.Average, r.Spread, r.SpreadPercent})
			}
			t.Render()

		case market.CategoryGold:
			doc, err := store.ReadGold()
			if err != nil {
				return err
			}
			printUpdated(doc.LastUpdate, doc.Source)

			t := newTable()
			t.AppendHeader(table.Row{"Name", "Price", "Buy", "Sell"})
			for _, p := range doc.Prices {
				t.AppendRow(table.Row{p.Name, p.Price, p.Buy, p.Sell})
			}
			t.Render()

		case market.CategoryCrypto:
			doc, err := store.ReadCrypto()
			if err != nil {
				return err
			}
			printUpdated(doc.LastUpdate, doc.Source)

			t := newTable()
			t.AppendHeader(table.Row{"Name", "Symbol", "Price (USD)", "Price (SYP)"})
			for _, p := range doc.Prices {
				t.AppendRow(table.Row{p.Name, p.Symbol, p.Price, orDash(p.PriceSYP)})
			}
			t.Render()

		default:
			return fmt.Errorf("unknown category %q", args[0])
		}
		return nil
	},
}

func printUpdated(lastUpdate int64, source string) {
	at := time.UnixMilli(lastUpdate).Local().Format(time.RFC1123)
	fmt.Printf("source: %s\nupdated: %s\n", source, at)
}
