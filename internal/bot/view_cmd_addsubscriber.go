package bot

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
)

type SubscriberAdder interface {
	Add(ctx context.Context, email string) (int64, error)
}

// ViewCmdAddSubscriber добавляет адрес в рассылку: /addsubscriber user@example.com
func ViewCmdAddSubscriber(storage SubscriberAdder) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		email, err := parseEmail(update.Message.CommandArguments())
		if err != nil {
			// Говорим пользователю, что инпут некорректный, это не ошибка бота
			return botkit.ReplyMarkdown(bot, update, markup.EscapeForMarkdown(
				"Нужен email: /addsubscriber user@example.com",
			))
		}

		id, err := storage.Add(ctx, email)
		if err != nil {
			return err
		}

		return botkit.ReplyMarkdown(bot, update, fmt.Sprintf(
			"Подписчик `%s` добавлен с ID: `%d`\\.",
			markup.EscapeForMarkdown(email),
			id,
		))
	}
}

// parseEmail принимает как голый адрес, так и "Name <addr>"
func parseEmail(args string) (string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", fmt.Errorf("empty email")
	}

	addr, err := mail.ParseAddress(args)
	if err != nil {
		return "", fmt.Errorf("parse email %q: %w", args, err)
	}

	return strings.ToLower(addr.Address), nil
}
