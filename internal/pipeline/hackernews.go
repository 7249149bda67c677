package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/agentic-news/internal/filter"
	"github.com/kovalyov-valentin/agentic-news/internal/llm"
	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

type HNFetcher interface {
	Fetch(ctx context.Context) ([]model.HNPost, error)
}

type Hackernews struct {
	front      HNFetcher
	completer  llm.Completer
	posts      PostStorage
	dedupeRuns int
}

func NewHackernews(front HNFetcher, completer llm.Completer, posts PostStorage, dedupeRuns int) *Hackernews {
	return &Hackernews{front: front, completer: completer, posts: posts, dedupeRuns: dedupeRuns}
}

func (h *Hackernews) Name() string { return "hackernews" }

func (h *Hackernews) Run(ctx context.Context) error {
	posts, err := h.front.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch front page: %w", err)
	}
	metrics.RecordItems(h.Name(), "fetched", len(posts))

	seenLinks := seen(ctx, h.posts, storage.TableHackernews, h.dedupeRuns, func(p model.HNPost) string { return p.Link })

	posts = filter.NewHNPosts(posts, seenLinks)
	posts = h.aiPosts(ctx, posts)
	metrics.RecordItems(h.Name(), "kept", len(posts))

	if _, err := h.posts.Insert(ctx, storage.TableHackernews, posts); err != nil {
		return fmt.Errorf("store posts: %w", err)
	}

	return nil
}

type aiPostList struct {
	Result []model.HNPost `json:"result"`
}

// aiPosts просит LLM выбрать посты про AI. Ссылки, которых не было на
// главной, отбрасываются
func (h *Hackernews) aiPosts(ctx context.Context, posts []model.HNPost) []model.HNPost {
	if len(posts) == 0 {
		return nil
	}

	listing := strings.Join(lo.Map(posts, func(p model.HNPost, _ int) string {
		return fmt.Sprintf("title: %s\nlink: %s", p.Title, p.Link)
	}), "\n\n")

	answer, err := llm.CompleteJSON[aiPostList](ctx, h.completer, llm.HackernewsPrompt(listing))
	if err != nil {
		log.Printf("[ERROR] failed to select AI posts: %v", err)
		metrics.RecordFailure(h.Name(), "filter")
		return nil
	}

	known := set.New(lo.Map(posts, func(p model.HNPost, _ int) string { return p.Link })...)

	return lo.UniqBy(lo.Filter(answer.Result, func(p model.HNPost, _ int) bool {
		return known.Contains(p.Link)
	}), func(p model.HNPost) string {
		return p.Link
	})
}
