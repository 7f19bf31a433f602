package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clinic/controllers"
	"clinic/routes"
	"clinic/utils"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server together with the background scheduler that
recalculates doctor payouts and marks overdue transactions.`,
	Example: `  # Start on the configured port
  clinic serve

  # Start without background jobs
  clinic serve --no-scheduler`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("no-scheduler", false, "Do not start background jobs")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := utils.WithComponent("serve")

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	noScheduler, _ := cmd.Flags().GetBool("no-scheduler")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Запускаем планировщик
	if cfg.Scheduler.Enabled && !noScheduler {
		a.scheduler.Start(ctx)
		defer func() {
			stop()
			a.scheduler.Wait()
		}()
	}

	handler := routes.NewRouter(cfg, routes.Controllers{
		Auth:      controllers.NewAuthController(a.users, cfg),
		Settings:  controllers.NewSettingsController(a.settings),
		Clinic:    controllers.NewClinicController(a.patients, a.appointments, a.exams, a.inventory),
		Financial: controllers.NewFinancialController(a.transactions, a.payouts),
		Dashboard: controllers.NewDashboardController(a.dashboard),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("version", version).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	return nil
}
