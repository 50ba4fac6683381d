package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nomnom-app/nomnom/internal/catalog"
	"github.com/nomnom-app/nomnom/internal/config"
	"github.com/nomnom-app/nomnom/internal/handlers"
	"github.com/nomnom-app/nomnom/internal/media"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the meme tagging server",
		Long: `Starts the nomnom server.

The server exposes the tag catalog, fuzzy-searchable by clients, and the
upload and find endpoints backed by the configured media host. Without a
media URL or catalog path everything is kept in memory, which is handy for
local development.`,
		Example: `  # Start server on default port 3001
  nomnom serve

  # Start server on custom port with a persistent tag catalog
  CATALOG_PATH=/var/lib/nomnom/tags.db nomnom serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			var cat catalog.Store
			if cfg.CatalogPath != "" {
				cat, err = catalog.OpenSQLite(cfg.CatalogPath)
				if err != nil {
					return err
				}
			} else {
				slog.Warn("No CATALOG_PATH configured, tag catalog is in-memory only")
				cat = catalog.NewMemory()
			}
			defer cat.Close()

			var store media.Store
			if cfg.Media.URL != "" {
				store = media.NewRemote(cfg.Media.URL, cfg.Media.APIKey, cfg.Media.APISecret)
			} else {
				slog.Warn("No MEDIA_URL configured, assets are in-memory only")
				store = media.NewMemory()
			}

			handler := handlers.New(store, cat)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/tags", handler.HandleTags)
			mux.HandleFunc("/find", handler.HandleFind)
			mux.HandleFunc("/upload", handler.HandleUpload)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handlers.Logging(mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Server running", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				// Let pending catalog bookkeeping settle before the store closes.
				handler.Flush()
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	return cmd
}
