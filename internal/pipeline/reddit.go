package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/kovalyov-valentin/agentic-news/internal/llm"
	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
	"github.com/kovalyov-valentin/agentic-news/internal/source"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

type TopPoster interface {
	TopPost(ctx context.Context, subreddit string) (*source.RedditTop, error)
}

// ArticleFunc достает текст страницы, на которую ссылается пост
type ArticleFunc func(ctx context.Context, link string) (string, error)

type Reddit struct {
	reddit     TopPoster
	article    ArticleFunc
	completer  llm.Completer
	posts      PostStorage
	subreddits []string
}

func NewReddit(reddit TopPoster, article ArticleFunc, completer llm.Completer, posts PostStorage, subreddits []string) *Reddit {
	return &Reddit{
		reddit:     reddit,
		article:    article,
		completer:  completer,
		posts:      posts,
		subreddits: subreddits,
	}
}

func (r *Reddit) Name() string { return "reddit" }

func (r *Reddit) Run(ctx context.Context) error {
	posts := make([]model.RedditPost, 0, len(r.subreddits))

	for _, subreddit := range r.subreddits {
		top, err := r.reddit.TopPost(ctx, subreddit)
		if err != nil {
			log.Printf("[ERROR] r/%s: %v", subreddit, err)
			metrics.RecordFailure(r.Name(), "fetch")
			continue
		}
		metrics.RecordItems(r.Name(), "fetched", 1)

		posts = append(posts, model.RedditPost{
			Subreddit:   subreddit,
			Title:       top.Title,
			URL:         top.PostURL,
			Score:       top.Score,
			NumComments: top.NumComments,
			Summary:     r.summarize(ctx, top),
		})
	}
	metrics.RecordItems(r.Name(), "kept", len(posts))

	if _, err := r.posts.Insert(ctx, storage.TableReddit, posts); err != nil {
		return fmt.Errorf("store posts: %w", err)
	}

	return nil
}

// Сколько символов страницы отдаем LLM
const redditContentLimit = 20000

type redditSummary struct {
	Summary string `json:"summary"`
}

func (r *Reddit) summarize(ctx context.Context, top *source.RedditTop) string {
	content := top.Content

	// У поста-ссылки своего текста нет, берем текст страницы
	if !top.IsSelf && top.URL != "" && r.article != nil {
		text, err := r.article(ctx, top.URL)
		if err != nil {
			log.Printf("[WARN] r/%s: failed to read linked page %s: %v", top.Subreddit, top.URL, err)
		} else {
			content = text
		}
	}

	if runes := []rune(content); len(runes) > redditContentLimit {
		content = string(runes[:redditContentLimit])
	}

	post := fmt.Sprintf(
		"title: %s\nscore: %d\nurl: %s\nnum_comments: %d\ncontent: %s",
		top.Title, top.Score, top.PostURL, top.NumComments, content,
	)

	answer, err := llm.CompleteJSON[redditSummary](ctx, r.completer, llm.RedditPrompt(post))
	if err != nil {
		log.Printf("[ERROR] r/%s: summarize: %v", top.Subreddit, err)
		metrics.RecordFailure(r.Name(), "summary")
		return ""
	}

	metrics.RecordItems(r.Name(), "enriched", 1)

	return answer.Summary
}
