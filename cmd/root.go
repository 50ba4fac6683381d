package cmd

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	debug     bool
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nomnom",
		Short: "Tag, upload, and find memes",
		Long: `Nomnom stores meme images in a hosted media service, indexed by tags.

Images are uploaded in concurrent batches with per-item outcomes, and found
again through fuzzy tag search over the catalog of every tag ever used.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging()
		},
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3001", "Base URL of the nomnom server")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Display debugging output")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newTagsCmd())

	return cmd
}

func setupLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if os.Getenv("MODE") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	slog.SetDefault(slog.New(handler))
}
