package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"

	"github.com/kovalyov-valentin/agentic-news/internal/bot"
	"github.com/kovalyov-valentin/agentic-news/internal/bot/middleware"
	"github.com/kovalyov-valentin/agentic-news/internal/botkit"
	"github.com/kovalyov-valentin/agentic-news/internal/config"
	"github.com/kovalyov-valentin/agentic-news/internal/digest"
	"github.com/kovalyov-valentin/agentic-news/internal/llm"
	"github.com/kovalyov-valentin/agentic-news/internal/mailer"
	"github.com/kovalyov-valentin/agentic-news/internal/mendeley"
	"github.com/kovalyov-valentin/agentic-news/internal/notifier"
	"github.com/kovalyov-valentin/agentic-news/internal/objectstore"
	"github.com/kovalyov-valentin/agentic-news/internal/pdfmark"
	"github.com/kovalyov-valentin/agentic-news/internal/pipeline"
	"github.com/kovalyov-valentin/agentic-news/internal/repograph"
	"github.com/kovalyov-valentin/agentic-news/internal/screenshot"
	"github.com/kovalyov-valentin/agentic-news/internal/source"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

// app держит общие зависимости команд
type app struct {
	cfg  config.Config
	http *http.Client
	db   *sqlx.DB

	posts       *storage.PostStorage
	digests     *storage.DigestStorage
	subscribers *storage.SubscriberStorage
}

func newApp(cfg config.Config) (*app, error) {
	db, err := sqlx.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &app{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.HTTPTimeout},
		db:          db,
		posts:       storage.NewPostStorage(db),
		digests:     storage.NewDigestStorage(db),
		subscribers: storage.NewSubscriberStorage(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// models выбирает провайдера LLM. Обложку умеет рисовать только OpenAI
func (a *app) models() (llm.Completer, llm.ImageGenerator, error) {
	openai := llm.NewOpenAIClient(a.cfg.OpenAIKey, a.cfg.LLMModel, a.cfg.ImageModel)

	var images llm.ImageGenerator
	if a.cfg.OpenAIKey != "" {
		images = openai
	}

	switch a.cfg.LLMProvider {
	case "openai":
		return openai, images, nil
	case "ollama":
		ollama, err := llm.NewOllamaClient(a.cfg.OllamaModel, a.cfg.HTTPTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("create ollama client: %w", err)
		}
		return ollama, images, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", a.cfg.LLMProvider)
	}
}

func (a *app) uploader(ctx context.Context) (*objectstore.S3, error) {
	return objectstore.NewS3(ctx, objectstore.Config{
		Bucket:    a.cfg.S3Bucket,
		Region:    a.cfg.S3Region,
		Endpoint:  a.cfg.S3Endpoint,
		PublicURL: a.cfg.S3PublicURL,
	})
}

func (a *app) runner(ctx context.Context) (*pipeline.Runner, error) {
	completer, _, err := a.models()
	if err != nil {
		return nil, err
	}

	uploader, err := a.uploader(ctx)
	if err != nil {
		return nil, err
	}

	cfg := a.cfg

	arxiv := pipeline.NewArxiv(
		source.NewArxivSource(a.http),
		mendeley.New(mendeley.Config{
			ClientID:     cfg.MendeleyClientID,
			ClientSecret: cfg.MendeleyClientSecret,
			RefreshToken: cfg.MendeleyRefreshToken,
			Workers:      cfg.MendeleyWorkers,
		}, a.http),
		source.NewPDFLoader(a.http),
		pdfmark.New(cfg.ArxivHighlightDPI, 0),
		completer,
		uploader,
		a.posts,
		pipeline.ArxivConfig{
			QueryCategory: cfg.ArxivQueryCategory,
			WindowDays:    cfg.ArxivWindowDays,
			Categories:    cfg.ArxivCategories,
			TopN:          cfg.ArxivTopN,
			TextLimit:     cfg.PaperTextLimit,
			DedupeRuns:    cfg.DedupeRuns,
		},
	)

	github := pipeline.NewGithub(
		source.NewTrendingSource(a.http),
		source.NewGithubAPI(a.http, cfg.GithubToken),
		screenshot.New(cfg.ScreenshotTimeout),
		repograph.NewBuilder(cfg.GithubTreeMaxDepth, cfg.GithubTreeMaxFiles),
		completer,
		uploader,
		a.posts,
		pipeline.GithubConfig{TopN: cfg.GithubTopN, DedupeRuns: cfg.DedupeRuns},
	)

	hackernews := pipeline.NewHackernews(source.NewHackernewsSource(a.http), completer, a.posts, cfg.DedupeRuns)

	reddit, err := source.NewRedditSource(a.http, source.RedditCredentials{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		Username:     cfg.RedditUsername,
		Password:     cfg.RedditPassword,
		UserAgent:    cfg.RedditUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}

	article := func(ctx context.Context, link string) (string, error) {
		return source.ArticleText(ctx, a.http, link)
	}

	return pipeline.NewRunner(
		arxiv,
		github,
		hackernews,
		pipeline.NewReddit(reddit, article, completer, a.posts, cfg.Subreddits),
	), nil
}

func (a *app) assembler(ctx context.Context) (*digest.Assembler, error) {
	completer, images, err := a.models()
	if err != nil {
		return nil, err
	}

	uploader, err := a.uploader(ctx)
	if err != nil {
		return nil, err
	}

	var sender mailer.Sender
	resend, err := mailer.NewResend(a.http, a.cfg.ResendAPIKey, a.cfg.EmailFrom)
	switch {
	case errors.Is(err, mailer.ErrNoAPIKey):
		log.Printf("[WARN] %v, digest will be stored without mailing", err)
	case err != nil:
		return nil, err
	default:
		sender = resend
	}

	assembler := digest.NewAssembler(
		a.posts,
		a.digests,
		a.subscribers,
		completer,
		images,
		uploader,
		sender,
		a.cfg.ManageSubscriptionURL,
	)

	// Телеграм опционален: без токена или канала письмо просто не анонсируется
	if a.cfg.TelegramBotToken == "" || a.cfg.TelegramChannelID == 0 {
		return assembler, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		log.Printf("[WARN] telegram announce disabled: %v", err)
		return assembler, nil
	}

	return assembler.WithAnnouncer(notifier.New(botAPI, a.cfg.TelegramChannelID)), nil
}

func (a *app) telegramBot() (*botkit.Bot, error) {
	// Создаем бота, используя токен из конфига
	botAPI, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	channelID := a.cfg.TelegramChannelID

	// Все команды, которые меняют рассылку, доступны только админам канала
	newsBot := botkit.New(botAPI)
	newsBot.RegisterCmdView("start", bot.ViewCmdStart(newsBot.Commands))
	newsBot.RegisterCmdView(
		"addsubscriber",
		middleware.AdminOnly(channelID, bot.ViewCmdAddSubscriber(a.subscribers)),
	)
	newsBot.RegisterCmdView(
		"removesubscriber",
		middleware.AdminOnly(channelID, bot.ViewCmdRemoveSubscriber(a.subscribers)),
	)
	newsBot.RegisterCmdView(
		"listsubscribers",
		middleware.AdminOnly(channelID, bot.ViewCmdListSubscribers(a.subscribers)),
	)
	newsBot.RegisterCmdView("latestdigest", bot.ViewCmdLatestDigest(a.digests))

	return newsBot, nil
}
