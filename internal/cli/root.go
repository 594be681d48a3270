package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"emotionanalyzer/internal/config"

	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg is loaded once in PersistentPreRunE and shared by subcommands
	cfg *config.Config

	deepFaceURL  string
	cacheBackend string
)

var rootCmd = &cobra.Command{
	Use:     "emotionanalyzer",
	Short:   "Facial emotion analysis with annotated image and CSV export",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		// Flags win over the environment
		if deepFaceURL != "" {
			cfg.DeepFaceURL = deepFaceURL
		}
		if cacheBackend != "" {
			cfg.CacheBackend = cacheBackend
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&deepFaceURL, "deepface-url", "", "DeepFace API base URL (default: $DEEPFACE_URL or http://localhost:5005)")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache", "", "Analysis cache backend: memory, sqlite or redis (default: $CACHE_BACKEND)")
}
