package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/promptloom/promptloom/config"
	"github.com/promptloom/promptloom/db"
	"github.com/promptloom/promptloom/logger"
	"github.com/promptloom/promptloom/macros"
	"github.com/promptloom/promptloom/server"
)

// ServeCmd starts the HTTP/WebSocket preview server.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/WebSocket preview server",
	Long: `Serve the template engine over HTTP: validation and preview endpoints,
the macro catalog, saved configurations, and a WebSocket channel streaming
debounced live previews.

Macro TOML files in the configured directory are hot-reloaded while the
server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		conn, err := db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		registry := macros.NewRegistry()
		if cfg.Macros.Watch {
			watcher, err := macros.NewWatcher(cfg.Macros.Dir, registry)
			if err != nil {
				// Missing macro dir is fine; fall back to a one-shot load
				logger.Warnw("Macro watcher unavailable",
					"dir", cfg.Macros.Dir,
					logger.FieldError, err)
				if defs, loadErr := macros.LoadDir(cfg.Macros.Dir); loadErr == nil {
					registry.SetLoaded(defs)
				}
			} else {
				if err := watcher.Start(); err != nil {
					return err
				}
				defer watcher.Stop()
			}
		} else {
			defs, err := macros.LoadDir(cfg.Macros.Dir)
			if err != nil {
				return err
			}
			registry.SetLoaded(defs)
		}

		srv := server.NewServer(conn, registry, logger.Logger)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		pterm.Success.Printf("promptloom serving on http://localhost%s\n", addr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			pterm.Info.Println("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	ServeCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
}
