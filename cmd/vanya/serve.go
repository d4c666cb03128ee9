package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	vhttp "github.com/Humphrey-He/vanya/api/http"
	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/checkout"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront JSON API",
	Long: `Restores the persisted cart, wishlist and session, then serves the
storefront API until SIGINT or SIGTERM.

When the config enables extensions.hot_reload, edits to log.level and
the checkout section are applied without a restart. Server, store and
auth settings are read once at startup.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

// serve runs the API described by c until ctx is done, then shuts the
// listener down within c.Server.ShutdownTimeout.
func serve(ctx context.Context, c *configs.Config) error {
	m := metrics.New(&metrics.Config{Level: metrics.Detailed})

	sess, err := session.Open(c, logger.Named("session"), m)
	if err != nil {
		return err
	}
	defer sess.Close()

	// A corrupt snapshot should not keep the shop closed.
	if _, err := sess.Restore(ctx); err != nil {
		logger.Warn("Starting with partially restored session", zap.Error(err))
	}

	co := checkout.New(sess.Cart,
		checkout.WithSettings(checkout.SettingsFrom(c.Checkout)),
		checkout.WithLogger(logger.Named("checkout")),
		checkout.WithMetrics(m),
	)

	if viperCfg != nil {
		viperCfg.Subscribe(applyReload(co))
		viperCfg.Watch()
		defer viperCfg.Close()
	}

	gin.SetMode(c.Server.Mode)
	srv := &http.Server{
		Addr:    c.Server.Addr,
		Handler: vhttp.NewServer(sess, co, m, logger.Named("http")).Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", zap.String("addr", c.Server.Addr), zap.String("mode", c.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down", zap.Duration("timeout", c.Server.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// applyReload returns the config subscriber used by serve. log.level is
// ignored while --verbose is set.
func applyReload(co *checkout.Service) func(*configs.Config) {
	return func(next *configs.Config) {
		if !verbose {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				logger.Warn("Ignoring log level change", zap.Error(err))
			}
		}
		co.UpdateSettings(checkout.SettingsFrom(next.Checkout))
	}
}
