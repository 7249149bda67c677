// Package digest собирает ежедневное письмо из последних запусков пайплайнов и рассылает его.
package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/kovalyov-valentin/agentic-news/internal/llm"
	"github.com/kovalyov-valentin/agentic-news/internal/mailer"
	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
	"github.com/kovalyov-valentin/agentic-news/internal/objectstore"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

// Заголовок письма, если LLM не ответила
const DefaultTitle = "AI News Digest"

type NewsReader interface {
	Latest(ctx context.Context, table storage.Table, out any) error
}

type DigestStorage interface {
	Store(ctx context.Context, digest model.Digest) (int64, error)
}

type SubscriberLister interface {
	Active(ctx context.Context) ([]model.Subscriber, error)
}

// Announcer сообщает о новом выпуске, например в телеграм канал
type Announcer interface {
	Announce(ctx context.Context, digest model.Digest) error
}

type Assembler struct {
	news        NewsReader
	digests     DigestStorage
	subscribers SubscriberLister
	completer   llm.Completer
	images      llm.ImageGenerator
	uploader    objectstore.Uploader
	sender      mailer.Sender
	announcer   Announcer
	manageURL   string
	now         func() time.Time
}

// NewAssembler собирает выпуск. images и sender могут быть nil: тогда выпуск
// выходит без обложки и без писем, но сохраняется и анонсируется
func NewAssembler(
	news NewsReader,
	digests DigestStorage,
	subscribers SubscriberLister,
	completer llm.Completer,
	images llm.ImageGenerator,
	uploader objectstore.Uploader,
	sender mailer.Sender,
	manageURL string,
) *Assembler {
	return &Assembler{
		news:        news,
		digests:     digests,
		subscribers: subscribers,
		completer:   completer,
		images:      images,
		uploader:    uploader,
		sender:      sender,
		manageURL:   manageURL,
		now:         time.Now,
	}
}

// WithAnnouncer включает анонс выпуска после рассылки
func (a *Assembler) WithAnnouncer(announcer Announcer) *Assembler {
	a.announcer = announcer
	return a
}

func (a *Assembler) Run(ctx context.Context) error {
	news, err := LoadNews(ctx, a.news)
	if err != nil {
		return err
	}

	log.Printf(
		"[INFO] assembling digest: %d papers, %d repos, %d hn posts, %d reddit posts",
		len(news.Arxiv), len(news.Github), len(news.Hackernews), len(news.Reddit),
	)

	title, summary := a.headline(ctx, news)
	cover := a.cover(ctx, title)

	html, err := Render(news, Header{
		CoverImageURL:         cover,
		Summary:               summary,
		ManageSubscriptionURL: a.manageURL,
	})
	if err != nil {
		return err
	}

	digest := model.Digest{
		Title:         title,
		Summary:       summary,
		HTML:          html,
		CoverImageURL: cover,
		CreatedAt:     a.now().UTC(),
	}

	digest.ID, err = a.digests.Store(ctx, digest)
	if err != nil {
		return fmt.Errorf("store digest: %w", err)
	}

	if err := a.send(ctx, digest); err != nil {
		return err
	}

	if a.announcer != nil {
		err := a.announcer.Announce(ctx, digest)
		metrics.RecordDelivery("telegram", err)
		if err != nil {
			log.Printf("[ERROR] failed to announce digest %d: %v", digest.ID, err)
		}
	}

	return nil
}

// LoadNews берет последнюю строку каждой таблицы. Пустая таблица - пустой раздел
func LoadNews(ctx context.Context, r NewsReader) (model.News, error) {
	var news model.News

	targets := []struct {
		table storage.Table
		out   any
	}{
		{storage.TableArxiv, &news.Arxiv},
		{storage.TableGithub, &news.Github},
		{storage.TableHackernews, &news.Hackernews},
		{storage.TableReddit, &news.Reddit},
	}

	for _, t := range targets {
		if err := r.Latest(ctx, t.table, t.out); err != nil {
			return model.News{}, fmt.Errorf("load %s: %w", t.table, err)
		}
	}

	return news, nil
}

type digestHeadline struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

func (a *Assembler) headline(ctx context.Context, news model.News) (string, string) {
	answer, err := llm.CompleteJSON[digestHeadline](ctx, a.completer, llm.DigestPrompt(Outline(news)))
	if err != nil {
		log.Printf("[ERROR] failed to write digest title: %v", err)
		metrics.RecordFailure("digest", "headline")
		return DefaultTitle, ""
	}

	title := strings.TrimSpace(answer.Title)
	if title == "" {
		title = DefaultTitle
	}

	return title, strings.TrimSpace(answer.Summary)
}

// Outline - заголовки выпуска по разделам, из них LLM пишет тему и саммари
func Outline(news model.News) string {
	var b strings.Builder

	writeSection := func(name string, titles []string) {
		if len(titles) == 0 {
			return
		}

		fmt.Fprintf(&b, "## %s\n", name)
		for _, title := range titles {
			fmt.Fprintf(&b, "- %s\n", title)
		}
		b.WriteString("\n")
	}

	writeSection("Research papers", lo.Map(news.Arxiv, func(p model.Paper, _ int) string { return p.Title }))
	writeSection("GitHub repositories", lo.Map(news.Github, func(r model.Repo, _ int) string {
		if r.Description == "" {
			return r.Title
		}
		return r.Title + ": " + r.Description
	}))
	writeSection("Hacker News", lo.Map(news.Hackernews, func(p model.HNPost, _ int) string { return p.Title }))
	writeSection("Reddit", lo.Map(news.Reddit, func(p model.RedditPost, _ int) string {
		return fmt.Sprintf("r/%s: %s", p.Subreddit, p.Title)
	}))

	return strings.TrimSpace(b.String())
}

// cover генерирует обложку. Без нее письмо все равно уходит
func (a *Assembler) cover(ctx context.Context, title string) string {
	if a.images == nil {
		return ""
	}

	image, err := a.images.GenerateImage(ctx, llm.CoverPrompt(title))
	if err != nil {
		log.Printf("[ERROR] failed to generate cover: %v", err)
		metrics.RecordFailure("digest", "cover")
		return ""
	}

	url, err := a.uploader.Upload(ctx, objectstore.NewKey("cover_", ".png"), objectstore.ContentTypePNG, image)
	if err != nil {
		log.Printf("[ERROR] failed to upload cover: %v", err)
		metrics.RecordFailure("digest", "upload")
		return ""
	}

	return url
}

// send отправляет каждому подписчику отдельное письмо
func (a *Assembler) send(ctx context.Context, digest model.Digest) error {
	if a.sender == nil {
		log.Printf("[WARN] email sender is not configured, digest %d is not mailed", digest.ID)
		return nil
	}

	subscribers, err := a.subscribers.Active(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	var sent int
	for _, sub := range subscribers {
		err := a.sender.Send(ctx, sub.Email, digest.Title, digest.HTML)
		metrics.RecordDelivery("email", err)
		if err != nil {
			log.Printf("[ERROR] failed to send digest to %s: %v", sub.Email, err)
			continue
		}
		sent++
	}

	log.Printf("[INFO] digest %d sent to %d of %d subscribers", digest.ID, sent, len(subscribers))

	return nil
}
