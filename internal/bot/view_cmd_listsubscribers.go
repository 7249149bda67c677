package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

type SubscriberLister interface {
	Active(ctx context.Context) ([]model.Subscriber, error)
}

func ViewCmdListSubscribers(lister SubscriberLister) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		subscribers, err := lister.Active(ctx)
		if err != nil {
			return err
		}

		return botkit.ReplyMarkdown(bot, update, formatSubscribers(subscribers))
	}
}

// Вывод форматированного списка подписчиков
func formatSubscribers(subscribers []model.Subscriber) string {
	if len(subscribers) == 0 {
		return "Подписчиков пока нет\\."
	}

	lines := lo.Map(subscribers, func(s model.Subscriber, _ int) string {
		return fmt.Sprintf(
			"📧 %s\nID: `%d`, с %s",
			markup.EscapeForMarkdown(s.Email),
			s.ID,
			markup.EscapeForMarkdown(s.CreatedAt.Format("2006-01-02")),
		)
	})

	return fmt.Sprintf(
		"Список подписчиков \\(всего %d\\):\n\n%s",
		len(subscribers),
		strings.Join(lines, "\n\n"),
	)
}
