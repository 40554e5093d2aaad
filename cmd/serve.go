package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zeadev/zeacontrol/internal/billing"
	"github.com/zeadev/zeacontrol/internal/server"
)

var serveFlags struct {
	port        int
	db          string
	sshTimeout  time.Duration
	billingCron string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control plane API and the billing scheduler",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &server.Config{
			Port:           serveFlags.port,
			DatabasePath:   serveFlags.db,
			SSHTimeout:     serveFlags.sshTimeout,
			TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
			TelegramChatID: os.Getenv("TELEGRAM_ADMIN_CHAT_ID"),
			Logger:         log.Logger,
		}
		srv := server.New(cfg)

		scheduler := billing.NewScheduler(srv.Sweeper(), cfg.Logger)
		if err := scheduler.Start(serveFlags.billingCron); err != nil {
			cfg.Logger.Fatal().Err(err).Str("spec", serveFlags.billingCron).Msg("invalid billing schedule")
		}

		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		wg := &sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cfg.Logger.Fatal().Err(err).Msg("server error")
			}
		}()

		sig := <-chSignal
		cfg.Logger.Info().Str("signal", sig.String()).Msg("shutting down server...")
		scheduler.Stop()
		if err := srv.Stop(context.Background()); err != nil {
			cfg.Logger.Error().Err(err).Msg("error during server shutdown")
		}
		srv.Dispatcher().Wait()

		wg.Wait()
		cfg.Logger.Info().Msg("server stopped")
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveFlags.db, "db", "zeacontrol.db", "Path to the sqlite database")
	serveCmd.Flags().DurationVar(&serveFlags.sshTimeout, "ssh-timeout", 600*time.Second, "Timeout for remote commands")
	serveCmd.Flags().StringVar(&serveFlags.billingCron, "billing-cron", "@daily", "Cron spec for the billing sweep")
}
