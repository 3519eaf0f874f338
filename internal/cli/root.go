package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// Execute запускает CLI
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "quizbot",
		Short:         "Telegram bot for group quizzes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config, skipped when missing")
	cmd.AddCommand(NewRunCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewCheckCmd())
	return cmd
}

// resolveConfig файл конфигурации необязателен: без него все берется из окружения
func resolveConfig(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
