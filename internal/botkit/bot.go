package botkit

import (
	"context"
	"log"
	"runtime/debug"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API - методы телеграма, которыми пользуются view
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatAdministrators(config tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error)
}

// Update здесь это любой эвент, который приходит от телеграма при взаимодействии пользователя с ботом.
// Это функция которая будет реагировать на определенную команду
type ViewFunc func(ctx context.Context, bot API, update tgbotapi.Update) error

type Bot struct {
	// Инстанс апи телеграма, из него читаем апдейты
	api *tgbotapi.BotAPI
	// Через него отвечают view
	sender API
	// Мапа в которой храним view
	cmdViews map[string]ViewFunc
	// Сколько времени дается одной view
	viewTimeout time.Duration
}

func New(api *tgbotapi.BotAPI) *Bot {
	return &Bot{
		api:         api,
		sender:      api,
		viewTimeout: 5 * time.Second,
	}
}

// Метод для регистрации View для команды
func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	if b.cmdViews == nil {
		b.cmdViews = make(map[string]ViewFunc)
	}

	b.cmdViews[cmd] = view
}

// Commands - зарегистрированные команды по алфавиту
func (b *Bot) Commands() []string {
	cmds := make([]string, 0, len(b.cmdViews))
	for cmd := range b.cmdViews {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)

	return cmds
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			updateCtx, updateCancel := context.WithTimeout(ctx, b.viewTimeout)
			b.handleUpdate(updateCtx, update)
			updateCancel()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Метод, который обрабатывает update и роутит команды на соответствующие view
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// В какой-то view может произойти паника, бот при этом должен продолжить работу
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered: %v\n%s", p, string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	// Сообщение может содержать не только команду, но и аргументы
	view, ok := b.cmdViews[update.Message.Command()]
	if !ok {
		return
	}

	if err := view(ctx, b.sender, update); err != nil {
		log.Printf("[ERROR] failed to handle /%s: %v", update.Message.Command(), err)

		if _, err := b.sender.Send(
			tgbotapi.NewMessage(update.Message.Chat.ID, "internal error"),
		); err != nil {
			log.Printf("[ERROR] failed to send message: %v", err)
		}
	}
}

// ReplyMarkdown отвечает в чат, из которого пришла команда. Текст уже должен быть заэскейплен
func ReplyMarkdown(bot API, update tgbotapi.Update, text string) error {
	reply := tgbotapi.NewMessage(update.Message.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdownV2

	_, err := bot.Send(reply)
	return err
}
