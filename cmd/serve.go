package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eca-cli/internal/api"
	"github.com/sells-group/eca-cli/internal/store"
)

var (
	servePort    int
	servePayload string
	serveReload  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parsed activities and the plan calculator over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePayload != "" {
			cfg.Server.PayloadPath = servePayload
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		var st store.Store
		if cfg.Server.PayloadPath == "" {
			var err error
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close() //nolint:errcheck
			}
		}

		cat, err := loadCatalog(ctx, st)
		if err != nil {
			return err
		}
		if cat == nil {
			zap.L().Warn("no parsed run available yet, api will return 503 until one is stored")
		}

		server := api.NewServer(cat, api.Options{
			RateLimit:   cfg.Server.RateLimit,
			RateBurst:   cfg.Server.RateBurst,
			CORSOrigins: cfg.Server.CORSOrigins,
			Rates:       cfg.Planner,
		})

		if st != nil && serveReload > 0 {
			go reloadCatalog(ctx, server, st, serveReload)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// loadCatalog reads the served catalog from the payload file when one is
// configured, otherwise from the newest stored run.
func loadCatalog(ctx context.Context, st store.Store) (*api.Catalog, error) {
	if cfg.Server.PayloadPath != "" {
		return api.LoadCatalogFile(cfg.Server.PayloadPath)
	}
	if st == nil {
		return nil, nil
	}
	return api.LoadCatalog(ctx, st)
}

// reloadCatalog swaps in the newest stored run whenever it changes.
func reloadCatalog(ctx context.Context, server *api.Server, st store.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cat, err := api.LoadCatalog(ctx, st)
			if err != nil {
				zap.L().Warn("catalog reload failed", zap.Error(err))
				continue
			}
			if cat == nil {
				continue
			}
			if cur := server.Catalog(); cur != nil && cur.RunID == cat.RunID {
				continue
			}
			server.SetCatalog(cat)
			zap.L().Info("catalog reloaded", zap.String("run_id", cat.RunID), zap.Int("activities", cat.Index().Len()))
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&servePayload, "payload", "", "serve a published JSON payload instead of the store")
	serveCmd.Flags().DurationVar(&serveReload, "reload", time.Minute, "interval for picking up newer stored runs (0 disables)")
	rootCmd.AddCommand(serveCmd)
}
