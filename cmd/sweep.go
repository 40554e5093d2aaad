package cmd

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zeadev/zeacontrol/internal/server"
)

var sweepFlags struct {
	db         string
	sshTimeout time.Duration
}

// sweepCmd runs a single billing sweep and exits. Useful for driving the
// sweep from an external scheduler instead of the built-in one.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one billing sweep and exit",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := &server.Config{
			DatabasePath:   sweepFlags.db,
			SSHTimeout:     sweepFlags.sshTimeout,
			TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
			TelegramChatID: os.Getenv("TELEGRAM_ADMIN_CHAT_ID"),
			Logger:         log.Logger,
		}
		srv := server.New(cfg)

		if err := srv.Sweeper().Run(context.Background()); err != nil {
			cfg.Logger.Fatal().Err(err).Msg("billing sweep failed")
		}
		// Suspensions are dispatched asynchronously, wait them out before
		// exiting.
		srv.Dispatcher().Wait()
		cfg.Logger.Info().Msg("billing sweep finished")
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepFlags.db, "db", "zeacontrol.db", "Path to the sqlite database")
	sweepCmd.Flags().DurationVar(&sweepFlags.sshTimeout, "ssh-timeout", 600*time.Second, "Timeout for remote commands")
}
