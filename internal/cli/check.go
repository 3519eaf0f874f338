package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/parser"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
	"github.com/spf13/cobra"
)

var errNoQuestions = errors.New("no valid questions found")

// NewCheckCmd разбирает файлы банка и печатает число вопросов в каждом
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Validate subject files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return checkSubjects(ctx, cmd, args[0])
		},
	}
}

func checkSubjects(ctx context.Context, cmd *cobra.Command, dir string) error {
	files, err := repository.NewFileRepository(dir).Load(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, f := range files {
		n := len(parser.Parse(f.Content))
		total += n

		status := "ok"
		if n == 0 {
			status = "skipped"
		}
		fmt.Fprintf(out, "%-40s %5d  %s\n", f.Name, n, status)
	}
	fmt.Fprintf(out, "total: %d files, %d questions\n", len(files), total)

	if total == 0 {
		return errNoQuestions
	}
	return nil
}
