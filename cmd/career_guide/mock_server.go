package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/apitest"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/types"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run the in-memory career-guidance backend",
	Long: `Starts an in-memory backend that serves the full REST surface under /api. Data lives only
in process memory. Useful for local demos of the client.`,
	RunE: runMockServer,
}

var mockPort int

func init() {
	mockServerCmd.Flags().IntVar(&mockPort, "port", 0, "Port to listen on (defaults to mock.port, 5000)")
	rootCmd.AddCommand(mockServerCmd)
}

// newMockBackend builds the fake backend from configuration and seeds the admin account.
func newMockBackend(cfg config.MockServerConfig, logger *zap.Logger) (*apitest.Server, error) {
	srv := apitest.New(apitest.Options{
		Secret:     cfg.Secret,
		SessionTTL: cfg.SessionTTL(),
		BcryptCost: cfg.BcryptCost,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		Logger:     logger,
	})
	if cfg.SeedAdminEmail != "" {
		if _, err := srv.SeedUser("Admin", cfg.SeedAdminEmail, cfg.SeedAdminPassword, types.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}
	return srv, nil
}

func runMockServer(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	mockCfg := rt.cfg.Mock
	if cmd.Flags().Changed("port") {
		mockCfg.Port = mockPort
	}
	backend, err := newMockBackend(mockCfg, rt.logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", mockCfg.Port),
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Mock backend listening on http://localhost:%d%s\n", mockCfg.Port, apitest.BasePath)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Metrics at http://localhost:%d%s\n", mockCfg.Port, apitest.MetricsPath)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rt.logger.Info("shutting down mock backend")
	return httpServer.Shutdown(shutdownCtx)
}
