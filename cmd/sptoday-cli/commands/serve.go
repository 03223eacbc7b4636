package commands

import (
	"net/http"

	"sptoday-backend/lib/util/serviceutil"
	"sptoday-backend/services/market"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 0, "Port to listen on, overrides the configured one.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the persisted json files over http without fetching.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		port := cfg.Port
		if *servePort != 0 {
			port = *servePort
		}

		mux := http.NewServeMux()
		mux.Handle("/", market.FileServer(cfg.DataDir))
		serviceutil.StartHttpServer(port, mux)
	},
}
