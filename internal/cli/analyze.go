package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"emotionanalyzer/internal/app"
	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/service"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze images and write the annotated JPEG and CSV report next to each other",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return runAnalyze(cmd.Context(), a.Manager(), args, analyzeOutput, cmd.OutOrStdout(), os.Stderr)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", ".", "Directory for the exported files")
	rootCmd.AddCommand(analyzeCmd)
}

// fileResult is one line of the summary printed after the run.
type fileResult struct {
	path    string
	emotion string
	faces   int
	err     error
}

// runAnalyze processes files one by one. Files that fail are reported and skipped.
func runAnalyze(ctx context.Context, manager *service.Manager, files []string, outDir string, stdout, progress io.Writer) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("🔍 Analyzing"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]fileResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		results = append(results, analyzeFile(ctx, manager, path, outDir))
		bar.Add(1)
	}
	bar.Finish()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			msg := r.err.Error()
			if apperror.CodeOf(r.err) != "" {
				msg = apperror.UserMessage(r.err)
			}
			fmt.Fprintf(stdout, "❌ %s: %s\n", r.path, msg)
			continue
		}
		fmt.Fprintf(stdout, "✅ %s: %s (%d face(s))\n", r.path, r.emotion, r.faces)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d image(s) could not be analyzed", failed, len(files))
	}
	return nil
}

func analyzeFile(ctx context.Context, manager *service.Manager, path, outDir string) fileResult {
	res := fileResult{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.err = apperror.NewDecodeError("failed to read file", err)
		return res
	}

	out, err := manager.Analyze(ctx, data)
	if err != nil {
		res.err = err
		return res
	}
	if out.ExportErr != nil {
		res.err = out.ExportErr
		return res
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.WriteFile(filepath.Join(outDir, base+"_analyzed.jpg"), out.ImageArtifact.Data, 0644); err != nil {
		res.err = fmt.Errorf("failed to write annotated image: %w", err)
		return res
	}
	if err := os.WriteFile(filepath.Join(outDir, base+"_report.csv"), out.ReportArtifact.Data, 0644); err != nil {
		res.err = fmt.Errorf("failed to write report: %w", err)
		return res
	}

	res.emotion = out.PrimaryEmotion()
	res.faces = out.Result.Len()
	return res
}
