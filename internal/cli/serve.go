package cli

import (
	"emotionanalyzer/internal/app"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Port = servePort
		}

		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Run()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (default: $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}
