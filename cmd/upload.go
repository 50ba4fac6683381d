package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nomnom-app/nomnom/internal/api"
	"github.com/nomnom-app/nomnom/internal/batch"
)

func newUploadCmd() *cobra.Command {
	var tagsText string
	var paste bool
	var pasteType string

	cmd := &cobra.Command{
		Use:   "upload [files...]",
		Short: "Upload memes in a concurrent batch",
		Long: `Queues images and uploads them all at once.

Every file argument is queued; with --paste, image bytes are read from stdin
the way a clipboard paste would arrive. Items upload concurrently and each
settles on its own: one failed upload never aborts the rest. Items that
succeed are never re-uploaded.`,
		Example: `  # Upload two memes tagged the same way
  nomnom upload dunk.jpg fail.gif --tags "kobe, bryant"

  # Pipe a screenshot in as a clipboard paste
  wl-paste | nomnom upload --paste --paste-type image/png --tags "butt"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !paste {
				return batch.ErrEmptyBatch
			}

			client := api.New(serverURL)
			o := batch.New(client, "")

			// Multiple paths arrive like a multi-file drop; both funnel
			// into the same ingestion path.
			if _, err := o.IngestDrop(args); err != nil {
				return err
			}
			if paste {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read pasted image: %w", err)
				}
				if _, err := o.IngestPaste(data, pasteType); err != nil {
					return err
				}
			}

			for _, item := range o.Items() {
				if err := o.SetTagText(item.ID(), tagsText); err != nil {
					return err
				}
				slog.Debug("Queued", "file", item.Filename(), "size", item.Size(), "preview", item.Preview())
			}

			report, err := o.RunBatch(cmd.Context())
			defer o.Reset()
			if err != nil {
				return err
			}

			for _, item := range o.Items() {
				switch item.Status() {
				case batch.StatusSucceeded:
					fmt.Fprintf(cmd.OutOrStdout(), "✔ %s  %s\n", item.Filename(), item.URL())
				case batch.StatusFailed:
					fmt.Fprintf(cmd.OutOrStdout(), "✘ %s  %v\n", item.Filename(), item.Err())
				}
			}

			if report.AllFailed() {
				return fmt.Errorf("all %d uploads failed", len(report.Outcomes))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d uploaded\n", report.Succeeded, len(report.Outcomes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tagsText, "tags", "t", "", "Comma-separated tags applied to every queued image")
	cmd.Flags().BoolVar(&paste, "paste", false, "Read image bytes from stdin, like a clipboard paste")
	cmd.Flags().StringVar(&pasteType, "paste-type", "image/png", "MIME type of the pasted image")

	return cmd
}
