package bot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

type fakeAPI struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetChatAdministrators(tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error) {
	return nil, nil
}

func (f *fakeAPI) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1].Text
}

func command(cmd, args string) tgbotapi.Update {
	text := "/" + cmd
	if args != "" {
		text += " " + args
	}

	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 1},
		From:     &tgbotapi.User{ID: 1},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
	}}
}

type fakeSubscribers struct {
	added       []string
	deactivated []string
	active      []model.Subscriber
}

func (f *fakeSubscribers) Add(_ context.Context, email string) (int64, error) {
	f.added = append(f.added, email)
	return int64(len(f.added)), nil
}

func (f *fakeSubscribers) Deactivate(_ context.Context, email string) (bool, error) {
	f.deactivated = append(f.deactivated, email)
	return email == "known@example.com", nil
}

func (f *fakeSubscribers) Active(context.Context) ([]model.Subscriber, error) {
	return f.active, nil
}

func TestViewCmdAddSubscriber(t *testing.T) {
	api, subs := &fakeAPI{}, &fakeSubscribers{}
	view := ViewCmdAddSubscriber(subs)

	require.NoError(t, view(context.Background(), api, command("addsubscriber", "Jane <Jane.Doe@Example.com>")))
	assert.Equal(t, []string{"jane.doe@example.com"}, subs.added)
	assert.Equal(t, "Подписчик `jane\\.doe@example\\.com` добавлен с ID: `1`\\.", api.last(t))
	assert.Equal(t, tgbotapi.ModeMarkdownV2, api.sent[0].ParseMode)

	require.NoError(t, view(context.Background(), api, command("addsubscriber", "not an email")))
	assert.Len(t, subs.added, 1)
	assert.Contains(t, api.last(t), "Нужен email")
}

func TestViewCmdRemoveSubscriber(t *testing.T) {
	api, subs := &fakeAPI{}, &fakeSubscribers{}
	view := ViewCmdRemoveSubscriber(subs)

	require.NoError(t, view(context.Background(), api, command("removesubscriber", "known@example.com")))
	assert.Contains(t, api.last(t), "отписан")

	require.NoError(t, view(context.Background(), api, command("removesubscriber", "ghost@example.com")))
	assert.Contains(t, api.last(t), "нет")

	require.NoError(t, view(context.Background(), api, command("removesubscriber", "")))
	assert.Equal(t, []string{"known@example.com", "ghost@example.com"}, subs.deactivated)
}

func TestFormatSubscribers(t *testing.T) {
	assert.Equal(t, "Подписчиков пока нет\\.", formatSubscribers(nil))

	got := formatSubscribers([]model.Subscriber{
		{ID: 3, Email: "a.b@example.com", CreatedAt: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 4, Email: "c@example.com", CreatedAt: time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC)},
	})

	assert.Equal(t,
		"Список подписчиков \\(всего 2\\):\n\n"+
			"📧 a\\.b@example\\.com\nID: `3`, с 2024\\-10\\-01\n\n"+
			"📧 c@example\\.com\nID: `4`, с 2024\\-10\\-02",
		got,
	)
}

type fakeDigests struct {
	digest *model.Digest
	err    error
}

func (f fakeDigests) Latest(context.Context) (*model.Digest, error) {
	return f.digest, f.err
}

func TestViewCmdLatestDigest(t *testing.T) {
	api := &fakeAPI{}

	require.NoError(t, ViewCmdLatestDigest(fakeDigests{err: sql.ErrNoRows})(context.Background(), api, command("latestdigest", "")))
	assert.Equal(t, "Выпусков пока не было\\.", api.last(t))

	digest := &model.Digest{
		ID:            9,
		Title:         "Agents everywhere!",
		Summary:       "Short.",
		CoverImageURL: "https://cdn.test/c.png",
		CreatedAt:     time.Date(2024, 10, 1, 7, 30, 0, 0, time.UTC),
	}
	require.NoError(t, ViewCmdLatestDigest(fakeDigests{digest: digest})(context.Background(), api, command("latestdigest", "")))
	assert.Equal(t,
		"*Agents everywhere\\!*\nВыпуск `9` от 2024\\-10\\-01 07:30 UTC\n\nShort\\.\n\nhttps://cdn\\.test/c\\.png",
		api.last(t),
	)
}

func TestViewCmdStart(t *testing.T) {
	api := &fakeAPI{}

	view := ViewCmdStart(func() []string { return []string{"latestdigest", "start"} })
	require.NoError(t, view(context.Background(), api, command("start", "")))

	assert.Equal(t, "Бот рассылки AI News Digest\\. Команды:\n\n/latestdigest\n/start", api.last(t))
}
