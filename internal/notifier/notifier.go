package notifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/agentic-news/internal/botkit/markup"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

// Часть BotAPI, которая нужна notifier
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	// Инстанс клиента botAPI
	bot BotSender
	// id канала куда постим анонс выпуска
	channelID int64
}

func New(bot BotSender, channelID int64) *Notifier {
	return &Notifier{
		bot:       bot,
		channelID: channelID,
	}
}

// Announce постит в канал заголовок, саммари и обложку выпуска
func (n *Notifier) Announce(_ context.Context, digest model.Digest) error {
	var msg tgbotapi.Chattable

	text := FormatDigest(digest)

	if digest.CoverImageURL != "" {
		photo := tgbotapi.NewPhoto(n.channelID, tgbotapi.FileURL(digest.CoverImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		msg = photo
	} else {
		message := tgbotapi.NewMessage(n.channelID, text)
		// Даем понять телеграм, чтобы это сообщение парсилось как markdown сообщение
		message.ParseMode = tgbotapi.ModeMarkdownV2
		msg = message
	}

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send digest to channel %d: %w", n.channelID, err)
	}

	return nil
}

// Лимит подписи к фото в телеграме
const captionLimit = 1024

// FormatDigest - текст анонса. Сначала жирным заголовок, потом саммари
func FormatDigest(digest model.Digest) string {
	// Т.к. используется markdown верстка, все аргументы надо заэскейпить
	title := "*" + markup.EscapeForMarkdown(digest.Title) + "*"

	summary := cleanText(strings.TrimSpace(digest.Summary))
	if summary == "" {
		return title
	}

	// Эскейп удлиняет текст, поэтому режем исходник с запасом
	if runes := []rune(summary); len(runes) > captionLimit/2 {
		summary = strings.TrimSpace(string(runes[:captionLimit/2])) + "…"
	}

	return title + "\n\n" + markup.EscapeForMarkdown(summary)
}

// LLM иногда оставляет много пустых строк подряд, схлопываем их в одну
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return redundantNewLines.ReplaceAllString(text, "\n\n")
}
