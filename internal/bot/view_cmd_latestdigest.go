package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

type DigestProvider interface {
	Latest(ctx context.Context) (*model.Digest, error)
}

func ViewCmdLatestDigest(digests DigestProvider) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		digest, err := digests.Latest(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return botkit.ReplyMarkdown(bot, update, "Выпусков пока не было\\.")
		}
		if err != nil {
			return err
		}

		return botkit.ReplyMarkdown(bot, update, formatDigest(digest))
	}
}

func formatDigest(digest *model.Digest) string {
	text := fmt.Sprintf(
		"*%s*\nВыпуск `%d` от %s",
		markup.EscapeForMarkdown(digest.Title),
		digest.ID,
		markup.EscapeForMarkdown(digest.CreatedAt.UTC().Format("2006-01-02 15:04 MST")),
	)

	if digest.Summary != "" {
		text += "\n\n" + markup.EscapeForMarkdown(digest.Summary)
	}

	if digest.CoverImageURL != "" {
		text += "\n\n" + markup.EscapeForMarkdown(digest.CoverImageURL)
	}

	return text
}
