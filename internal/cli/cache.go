package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"emotionanalyzer/internal/app"

	"github.com/spf13/cobra"
)

var cacheYes bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analysis cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many analyses are cached",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Cache().Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count cached analyses: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗄️  %s cache: %d analysis(es)\n", cfg.CacheBackend, n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheYes && !confirm(bufio.NewReader(os.Stdin), "⚠️  Are you sure you want to delete all cached analyses?") {
			return nil
		}

		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Cache().DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✨ Cache cleared.")
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().BoolVarP(&cacheYes, "yes", "y", false, "Skip the confirmation prompt")
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func confirm(r *bufio.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}
