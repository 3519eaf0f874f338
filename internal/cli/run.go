package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/IT-Nick/group-quiz-bot/internal/app"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/config"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/logger"
	"github.com/spf13/cobra"
)

// NewRunCmd запуск бота
func NewRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and the service HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), *configPath)
		},
	}
}

func runBot(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(resolveConfig(configPath))
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		return err
	}

	log.Info().Msg("bot stopped")
	return nil
}
