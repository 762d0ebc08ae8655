package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfsift/internal/api"
	"github.com/jackzampolin/pdfsift/internal/config"
	"github.com/jackzampolin/pdfsift/internal/home"
	"github.com/jackzampolin/pdfsift/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pdfsift",
	Short: "Extract text from a corpus of PDFs, with OCR fallback",
	Long: `pdfsift walks a directory tree, extracts the embedded text layer of every
PDF it finds, and falls back to Tesseract OCR for documents without one.
Low-confidence OCR words are dropped, which filters most handwriting.

Runs report one line per document as it completes and can be paused,
resumed and cancelled while in progress, either locally (pdfsift extract)
or through the HTTP control server (pdfsift serve / pdfsift api).`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pdfsift home directory (default: ~/.pdfsift)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := api.ParseOutputFormat(outputFormat); err != nil {
			return err
		}
		api.SetOutputFormat(outputFormat)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// loadEnvironment resolves the home directory, loads its optional .env
// file, and reads the configuration.
func loadEnvironment() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	if h.EnvExists() {
		// Existing environment variables win over the file
		if err := godotenv.Load(h.EnvPath()); err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", h.EnvPath(), err)
		}
	}

	path := cfgFile
	if path == "" && homeDir != "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	mgr, err := config.NewManager(path)
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogCfg) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log.format %q (want text or json)", cfg.Format)
	}
}

func stderrLogger(cfg *config.Config) (*slog.Logger, error) {
	return newLogger(os.Stderr, cfg.Log)
}
