package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Artem18071998/portfolio/config"
	"github.com/Artem18071998/portfolio/contact"
	"github.com/Artem18071998/portfolio/content"
	"github.com/Artem18071998/portfolio/relay"
	"github.com/Artem18071998/portfolio/routines"
	"github.com/Artem18071998/portfolio/server"
	"github.com/Artem18071998/portfolio/store"
)

const (
	visitorCleanupInterval = 24 * time.Hour
	sessionSweepInterval   = time.Minute
	shutdownTimeout        = 10 * time.Second
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the web server",
		Long: `Start the web server.

Examples:
  portfolio serve                          # Embedded content on :8080
  portfolio serve -p 3000 --db site.db     # Custom port and database
  portfolio serve --content content.yaml   # Content reloaded on save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	settings, err := config.Load(v)
	if err != nil {
		return err
	}
	gin.SetMode(settings.Mode)

	logger, err := newLogger(settings.Mode, v.GetString("log_level"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(settings.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	src, err := content.NewSource(settings.ContentFile)
	if err != nil {
		return err
	}
	if err := src.Watch(ctx, logger); err != nil {
		return err
	}

	forms, err := newRegistry(v, settings, logger)
	if err != nil {
		return err
	}

	router, err := server.New(settings, src, st, forms, logger).Router()
	if err != nil {
		return err
	}

	go routines.StartVisitorCleanup(ctx, st, visitorCleanupInterval, logger)
	go routines.StartSessionSweep(ctx, forms, sessionSweepInterval, logger)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", settings.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "mode", settings.Mode, "relay", settings.RelayProvider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRelay(settings *config.Settings, logger *slog.Logger) contact.Relay {
	if settings.RelayProvider == config.RelayLog {
		return relay.NewLog(logger)
	}
	return relay.NewEmailJS(settings.EmailJSBaseURL, settings.EmailJSKey)
}

// newRegistry wires one contact form per browser session. Every form reads
// the relay configuration from v when a submission starts.
func newRegistry(v *viper.Viper, settings *config.Settings, logger *slog.Logger) (*contact.Registry, error) {
	rl := newRelay(settings, logger)
	source := config.NewRelaySource(v)
	if missing := source.RelayConfig().Missing(); len(missing) > 0 {
		logger.Warn("contact relay is not configured, submissions will fail", "missing", missing)
	}

	formLogger := logger.With("component", "contact")
	return contact.NewRegistry(settings.SessionTTL, func() *contact.Form {
		return contact.NewForm(rl, source,
			contact.WithLogger(formLogger),
			contact.WithObserver(func(s contact.State) {
				formLogger.Debug("contact form transition", "state", s.String())
			}),
		)
	})
}
