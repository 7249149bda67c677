package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-github/v72/github"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const (
	trendingURL = "https://github.com/trending"
	// GitHub отдает урезанную страницу без браузерного UA
	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Скрапер страницы trending. Разметка GitHub меняется, поэтому все поля необязательные
type TrendingSource struct {
	client *http.Client
	url    string
}

func NewTrendingSource(client *http.Client) *TrendingSource {
	return NewTrendingSourceWithURL(client, trendingURL)
}

func NewTrendingSourceWithURL(client *http.Client, pageURL string) *TrendingSource {
	return &TrendingSource{client: client, url: pageURL}
}

func (s *TrendingSource) Fetch(ctx context.Context) ([]model.Repo, error) {
	body, err := get(ctx, s.client, s.url, browserUA)
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	defer body.Close()

	return ParseTrending(body)
}

// ParseTrending разбирает HTML страницы trending
func ParseTrending(r io.Reader) ([]model.Repo, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var repos []model.Repo
	doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
		// Внутри ссылки имя разбито пробелами и переносами: "owner /\n name"
		fullName := strings.Join(strings.Fields(row.Find("h2 a").First().Text()), "")
		if fullName == "" {
			return
		}

		language := strings.TrimSpace(row.Find(`span[itemprop="programmingLanguage"]`).First().Text())
		if language == "" {
			language = "Unknown"
		}

		stats := row.Find("a.Link--muted")

		starsToday := 0
		if text := strings.Fields(row.Find("span.d-inline-block.float-sm-right").First().Text()); len(text) > 0 {
			starsToday = ParseCount(text[0])
		}

		repos = append(repos, model.Repo{
			Title:       fullName,
			URL:         "https://github.com/" + fullName,
			Description: strings.TrimSpace(row.Find("p").First().Text()),
			Language:    language,
			TotalStars:  ParseCount(stats.Eq(0).Text()),
			Forks:       ParseCount(stats.Eq(1).Text()),
			StarsToday:  starsToday,
		})
	})

	return repos, nil
}

// ParseCount понимает "1,234", "1.2k" и пустую строку
func ParseCount(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "k") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "k"), 64)
		if err != nil {
			return 0
		}
		return int(f * 1000)
	}

	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}

	return n
}

// README репозитория из REST API
type Readme struct {
	Content string
	// Страница README на github.com, ее и скриншотим
	HTMLURL string
}

// Клиент GitHub REST API
type GithubAPI struct {
	client *github.Client
}

func NewGithubAPI(httpClient *http.Client, token string) *GithubAPI {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &GithubAPI{client: client}
}

// NewGithubAPIWithURL направляет запросы на другой хост, нужен для тестов
func NewGithubAPIWithURL(httpClient *http.Client, baseURL string) (*GithubAPI, error) {
	client := github.NewClient(httpClient)

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	return &GithubAPI{client: client}, nil
}

// Readme возвращает nil без ошибки, если README у репозитория нет
func (a *GithubAPI) Readme(ctx context.Context, fullName string) (*Readme, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return nil, fmt.Errorf("bad repository name %q", fullName)
	}

	content, _, err := a.client.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get readme %s: %w", fullName, err)
	}

	text, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode readme %s: %w", fullName, err)
	}

	return &Readme{Content: text, HTMLURL: content.GetHTMLURL()}, nil
}
