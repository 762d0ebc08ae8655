package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/native"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
	"github.com/jackzampolin/pdfsift/internal/report"
)

var (
	extractWorkers       int
	extractDPI           int
	extractMinConfidence int
	extractExport        string
	extractQuiet         bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <root>",
	Short: "Extract text from every PDF under a directory",
	Long: `Extract text from every PDF under root, recursively.

Each document's embedded text layer is used when present. Documents without
one are rasterized and run through Tesseract; OCR words at or below the
confidence threshold are dropped. One line is printed per document as it
completes, followed by a summary.

While running:
  p + Enter    pause progress reporting
  r + Enter    resume
  c + Enter    cancel (as does Ctrl+C)
SIGUSR1 and SIGUSR2 pause and resume where the platform supports them.

Examples:
  pdfsift extract ./scans
  pdfsift extract ./scans --workers 8 --export results.csv
  pdfsift extract ./scans --min-confidence 80 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		_, mgr, err := loadEnvironment()
		if err != nil {
			return err
		}
		cfg := *mgr.Get()
		if cmd.Flags().Changed("workers") {
			cfg.Extract.Workers = extractWorkers
		}
		if cmd.Flags().Changed("dpi") {
			cfg.Extract.DPI = extractDPI
		}
		if cmd.Flags().Changed("min-confidence") {
			cfg.Extract.MinConfidence = extractMinConfidence
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := stderrLogger(&cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		listeners := pipeline.Listeners{
			report.NewLogListener(logger),
			pipeline.ListenerFuncs{Result: func(r extract.Result) { printResult(out, r) }},
		}
		if !extractQuiet {
			listeners = append(listeners, report.NewProgressBar(cmd.ErrOrStderr()))
		}

		ctrl := pipeline.NewControl()
		stop := watchSignals(ctrl, logger)
		defer stop()
		go watchStdin(os.Stdin, ctrl, logger)

		p, err := native.Build(&cfg, ctrl, listeners, logger)
		if err != nil {
			return err
		}

		summary, err := p.Run(ctx, root)
		if err != nil {
			return err
		}

		if extractExport != "" && len(summary.Results) > 0 {
			if err := report.ExportCSV(extractExport, summary.Results); err != nil {
				return err
			}
			logger.Info("results exported", "path", extractExport, "rows", len(summary.Results))
		}

		brief := *summary
		brief.Results = nil
		return api.Output(brief)
	},
}

func printResult(w io.Writer, r extract.Result) {
	if r.Failed() {
		fmt.Fprintf(w, "%s\tfailed (%s): %s\n", r.FileName, r.Failure, r.Error)
		return
	}
	fmt.Fprintf(w, "%s\t%d pages\t%d characters\t%s\n", r.FileName, r.Pages, r.Characters, r.Method)
}

func init() {
	extractCmd.Flags().IntVar(&extractWorkers, "workers", pipeline.DefaultWorkers, "Documents processed concurrently")
	extractCmd.Flags().IntVar(&extractDPI, "dpi", 300, "Rasterization resolution for OCR")
	extractCmd.Flags().IntVar(&extractMinConfidence, "min-confidence", 70, "Drop OCR words scoring at or below this")
	extractCmd.Flags().StringVar(&extractExport, "export", "", "Write results to this CSV file when done")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "Hide the progress bar")

	rootCmd.AddCommand(extractCmd)
}
