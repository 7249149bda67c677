package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
)

// ViewCmdStart показывает доступные команды
func ViewCmdStart(commands func() []string) botkit.ViewFunc {
	return func(_ context.Context, bot botkit.API, update tgbotapi.Update) error {
		return botkit.ReplyMarkdown(bot, update, formatHelp(commands()))
	}
}

func formatHelp(commands []string) string {
	lines := lo.Map(commands, func(cmd string, _ int) string {
		return markup.EscapeForMarkdown("/" + cmd)
	})

	return "Бот рассылки AI News Digest\\. Команды:\n\n" + strings.Join(lines, "\n")
}
