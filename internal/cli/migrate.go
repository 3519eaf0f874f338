package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/IT-Nick/group-quiz-bot/internal/app"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/config"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/logger"
	"github.com/IT-Nick/group-quiz-bot/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewMigrateCmd применяет миграции архива результатов
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run results archive migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrations(cmd.Context(), *configPath, command)
		},
	}
}

func runMigrations(ctx context.Context, configPath, command string) error {
	cfg, err := config.Read(resolveConfig(configPath))
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("database is not configured, set PG_HOST")
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if ctx == nil {
		ctx = context.Background()
	}

	db, err := app.InitDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}

	log.Info().Str("command", command).Msg("migrations done")
	return nil
}
