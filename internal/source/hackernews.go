package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/SlyMarbo/rss"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const (
	hackernewsURL    = "https://news.ycombinator.com"
	hackernewsRSSURL = "https://news.ycombinator.com/rss"
)

// Главная Hacker News. Основной путь - скрапинг HTML, запасной - RSS лента главной
type HackernewsSource struct {
	client  *http.Client
	pageURL string
	feedURL string
}

func NewHackernewsSource(client *http.Client) *HackernewsSource {
	return NewHackernewsSourceWithURL(client, hackernewsURL, hackernewsRSSURL)
}

func NewHackernewsSourceWithURL(client *http.Client, pageURL, feedURL string) *HackernewsSource {
	return &HackernewsSource{client: client, pageURL: pageURL, feedURL: feedURL}
}

func (s *HackernewsSource) Fetch(ctx context.Context) ([]model.HNPost, error) {
	posts, err := s.scrape(ctx)
	if err == nil && len(posts) > 0 {
		return posts, nil
	}

	if err != nil {
		log.Printf("[WARN] scraping hacker news failed, falling back to rss: %v", err)
	} else {
		log.Printf("[WARN] hacker news page has no stories, falling back to rss")
	}

	return s.fromFeed(ctx)
}

func (s *HackernewsSource) scrape(ctx context.Context) ([]model.HNPost, error) {
	body, err := get(ctx, s.client, s.pageURL, "")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ParseFrontPage(body, s.pageURL)
}

// ParseFrontPage достает заголовки и ссылки из span.titleline
func ParseFrontPage(r io.Reader, base string) ([]model.HNPost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var posts []model.HNPost
	doc.Find("span.titleline").Each(func(_ int, story *goquery.Selection) {
		a := story.Find("a").First()

		link, ok := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if !ok || title == "" {
			return
		}

		// У Ask HN и похожих постов ссылка относительная: item?id=...
		if !strings.HasPrefix(link, "http") {
			link = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(link, "/")
		}

		posts = append(posts, model.HNPost{Title: title, Link: link})
	})

	return posts, nil
}

func (s *HackernewsSource) fromFeed(ctx context.Context) ([]model.HNPost, error) {
	feed, err := s.loadFeed(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch hacker news rss: %w", err)
	}

	posts := make([]model.HNPost, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, model.HNPost{Title: item.Title, Link: item.Link})
	}

	return posts, nil
}

// Библиотека rss не умеет в контекст, поэтому ждем ее в отдельной горутине
func (s *HackernewsSource) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	var (
		feedCh = make(chan *rss.Feed, 1)
		errCh  = make(chan error, 1)
	)

	go func() {
		feed, err := rss.FetchByClient(url, s.client)
		if err != nil {
			errCh <- err
			return
		}

		feedCh <- feed
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case feed := <-feedCh:
		return feed, nil
	}
}
