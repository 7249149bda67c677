package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
)

type SubscriberRemover interface {
	Deactivate(ctx context.Context, email string) (bool, error)
}

// ViewCmdRemoveSubscriber отписывает адрес. Строка в базе остается, подписчик помечается неактивным
func ViewCmdRemoveSubscriber(storage SubscriberRemover) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		email, err := parseEmail(update.Message.CommandArguments())
		if err != nil {
			return botkit.ReplyMarkdown(bot, update, markup.EscapeForMarkdown(
				"Нужен email: /removesubscriber user@example.com",
			))
		}

		removed, err := storage.Deactivate(ctx, email)
		if err != nil {
			return err
		}

		if !removed {
			return botkit.ReplyMarkdown(bot, update, fmt.Sprintf(
				"Активного подписчика `%s` нет\\.",
				markup.EscapeForMarkdown(email),
			))
		}

		return botkit.ReplyMarkdown(bot, update, fmt.Sprintf(
			"Подписчик `%s` отписан\\.",
			markup.EscapeForMarkdown(email),
		))
	}
}
