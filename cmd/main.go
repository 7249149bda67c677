package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/kovalyov-valentin/agentic-news/internal/config"
	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
)

func main() {
	//Graceful Shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentic-news",
		Short: "AI news digest: collects arXiv, GitHub, Hacker News and Reddit, then emails the digest",
		Long: `Without a subcommand runs every source pipeline and then sends the digest.

Examples:
  agentic-news                   # all pipelines, then the digest
  agentic-news fetch arxiv       # only the arXiv pipeline
  agentic-news digest            # only assemble and send the digest
  agentic-news bot               # telegram admin bot`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				runner, err := a.runner(ctx)
				if err != nil {
					return err
				}

				// Упавший пайплайн не отменяет рассылку, в письмо уйдет последний удачный запуск
				if err := runner.RunAll(ctx); err != nil {
					log.Printf("[ERROR] some pipelines failed: %v", err)
				}

				assembler, err := a.assembler(ctx)
				if err != nil {
					return err
				}

				return assembler.Run(ctx)
			})
		},
	}

	root.AddCommand(newFetchCmd(), newDigestCmd(), newBotCmd())

	return root
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "fetch [source...]",
		Short:     "Run source pipelines (arxiv, github, hackernews, reddit), all by default",
		ValidArgs: []string{"arxiv", "github", "hackernews", "reddit"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				runner, err := a.runner(ctx)
				if err != nil {
					return err
				}

				return runner.Run(ctx, args...)
			})
		},
	}
}

func newDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Assemble the digest from the latest runs and send it to subscribers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				assembler, err := a.assembler(ctx)
				if err != nil {
					return err
				}

				return assembler.Run(ctx)
			})
		},
	}
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the telegram bot for subscriber management",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				newsBot, err := a.telegramBot()
				if err != nil {
					return err
				}

				// Запуск бота
				if err := newsBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}

				log.Println("[INFO] bot stopped")
				return nil
			})
		},
	}
}

// withApp поднимает зависимости, выполняет fn и отправляет метрики запуска
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg := config.Get()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runErr := fn(ctx, a)

	// Метрики шлем и после неудачного запуска
	if err := metrics.Push(context.WithoutCancel(ctx), cfg.PushgatewayURL); err != nil {
		log.Printf("[WARN] %v", err)
	}

	return runErr
}
