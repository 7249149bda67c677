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
	"github.com/kovalyov-valentin/agentic-news/internal/objectstore"
	"github.com/kovalyov-valentin/agentic-news/internal/repograph"
	"github.com/kovalyov-valentin/agentic-news/internal/source"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

type RepoFetcher interface {
	Fetch(ctx context.Context) ([]model.Repo, error)
}

type ReadmeFetcher interface {
	Readme(ctx context.Context, fullName string) (*source.Readme, error)
}

type Screenshotter interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

type TreeBuilder interface {
	Build(ctx context.Context, repoURL string) (*repograph.Node, error)
}

type GithubConfig struct {
	// 0 - все AI репозитории
	TopN       int
	DedupeRuns int
}

type Github struct {
	trending  RepoFetcher
	readmes   ReadmeFetcher
	shooter   Screenshotter
	trees     TreeBuilder
	completer llm.Completer
	uploader  objectstore.Uploader
	posts     PostStorage
	cfg       GithubConfig
}

func NewGithub(
	trending RepoFetcher,
	readmes ReadmeFetcher,
	shooter Screenshotter,
	trees TreeBuilder,
	completer llm.Completer,
	uploader objectstore.Uploader,
	posts PostStorage,
	cfg GithubConfig,
) *Github {
	return &Github{
		trending:  trending,
		readmes:   readmes,
		shooter:   shooter,
		trees:     trees,
		completer: completer,
		uploader:  uploader,
		posts:     posts,
		cfg:       cfg,
	}
}

func (g *Github) Name() string { return "github" }

func (g *Github) Run(ctx context.Context) error {
	repos, err := g.trending.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch trending: %w", err)
	}
	metrics.RecordItems(g.Name(), "fetched", len(repos))
	log.Printf("[INFO] fetched %d trending repositories", len(repos))

	seenURLs := seen(ctx, g.posts, storage.TableGithub, g.cfg.DedupeRuns, func(r model.Repo) string { return r.URL })

	repos = filter.NewRepos(repos, seenURLs)
	repos = g.aiRepos(ctx, repos)
	repos = filter.TopReposByStars(repos, g.cfg.TopN)
	metrics.RecordItems(g.Name(), "kept", len(repos))

	for i := range repos {
		g.enrich(ctx, &repos[i])
	}

	if _, err := g.posts.Insert(ctx, storage.TableGithub, repos); err != nil {
		return fmt.Errorf("store repos: %w", err)
	}

	return nil
}

type aiRepoNames struct {
	Result []string `json:"result"`
}

// aiRepos оставляет репозитории, которые LLM сочла относящимися к AI.
// Имена, которых не было в тренде, игнорируются
func (g *Github) aiRepos(ctx context.Context, repos []model.Repo) []model.Repo {
	if len(repos) == 0 {
		return nil
	}

	answer, err := llm.CompleteJSON[aiRepoNames](ctx, g.completer, llm.AIReposPrompt(FormatRepos(repos)))
	if err != nil {
		log.Printf("[ERROR] failed to select AI repositories: %v", err)
		metrics.RecordFailure(g.Name(), "filter")
		return nil
	}

	names := set.New(lo.Map(answer.Result, func(name string, _ int) string {
		return strings.ToLower(strings.TrimSpace(name))
	})...)

	return lo.Filter(repos, func(r model.Repo, _ int) bool {
		return names.Contains(strings.ToLower(r.Title))
	})
}

// FormatRepos - список репозиториев в том виде, в котором его видит LLM
func FormatRepos(repos []model.Repo) string {
	return strings.Join(lo.Map(repos, func(r model.Repo, _ int) string {
		return fmt.Sprintf(
			"Repository: %s\nURL: %s\nDescription: %s\nLanguage: %s\nTotal Stars: %d\nStars Today: %d\nForks: %d",
			r.Title, r.URL, r.Description, r.Language, r.TotalStars, r.StarsToday, r.Forks,
		)
	}), "\n---\n")
}

func (g *Github) enrich(ctx context.Context, repo *model.Repo) {
	readme, err := g.readmes.Readme(ctx, repo.Title)
	if err != nil {
		log.Printf("[ERROR] repo %s: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "readme")
	}

	// Скриншотим README, если он есть, иначе главную репозитория
	shotURL := repo.URL
	if readme != nil && readme.HTMLURL != "" {
		shotURL = readme.HTMLURL
	}

	repo.Screenshot = g.screenshot(ctx, repo, shotURL)
	repo.GraphURL = g.graph(ctx, repo)

	if readme == nil {
		return
	}

	content, err := llm.CompleteJSON[model.RepoContent](ctx, g.completer, llm.ReadmePrompt(readme.Content))
	if err != nil {
		log.Printf("[ERROR] repo %s: summarize readme: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "summary")
		return
	}

	repo.AIContent = &content
	metrics.RecordItems(g.Name(), "enriched", 1)
}

func (g *Github) screenshot(ctx context.Context, repo *model.Repo, url string) string {
	shot, err := g.shooter.Capture(ctx, url)
	if err != nil {
		log.Printf("[ERROR] repo %s: screenshot: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "screenshot")
		return ""
	}

	link, err := g.uploader.Upload(ctx, objectstore.NewKey("", ".png"), objectstore.ContentTypePNG, shot)
	if err != nil {
		log.Printf("[ERROR] repo %s: upload screenshot: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "upload")
		return ""
	}

	return link
}

func (g *Github) graph(ctx context.Context, repo *model.Repo) string {
	tree, err := g.trees.Build(ctx, repo.URL)
	if err != nil {
		log.Printf("[ERROR] repo %s: build tree: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "graph")
		return ""
	}

	page, err := repograph.RenderHTML(tree, repograph.RepoName(repo.URL))
	if err != nil {
		log.Printf("[ERROR] repo %s: render tree: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "graph")
		return ""
	}

	link, err := g.uploader.Upload(ctx, objectstore.NewKey("github_structure_", ".html"), objectstore.ContentTypeHTML, page)
	if err != nil {
		log.Printf("[ERROR] repo %s: upload tree: %v", repo.Title, err)
		metrics.RecordFailure(g.Name(), "upload")
		return ""
	}

	return link
}
