package source

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Топ пост сабреддита в сыром виде, до суммаризации
type RedditTop struct {
	Subreddit   string
	Title       string
	Score       int
	URL         string
	PostURL     string
	NumComments int
	UpvoteRatio float32
	Author      string
	// Текст селф-поста, у постов-ссылок пустой
	Content string
	IsSelf  bool
}

type RedditSource struct {
	client *reddit.Client
}

type RedditCredentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
	// Пустой - боевой адрес Reddit
	TokenURL string
}

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditOAuthURL = "https://oauth.reddit.com"
)

// NewRedditSource выбирает авторизацию по заданным полям: логин и пароль дают
// скриптовое приложение, только id и secret - токен приложения без пользователя,
// без id клиент анонимный read-only
func NewRedditSource(httpClient *http.Client, creds RedditCredentials, opts ...reddit.Opt) (*RedditSource, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	// go-reddit переписывает Transport у переданного клиента, общий не отдаем
	hc := *httpClient

	var (
		client *reddit.Client
		err    error
	)
	switch {
	case creds.ClientID != "" && creds.Username != "":
		client, err = reddit.NewClient(reddit.Credentials{
			ID:       creds.ClientID,
			Secret:   creds.ClientSecret,
			Username: creds.Username,
			Password: creds.Password,
		}, redditOpts(&hc, creds, opts)...)
	case creds.ClientID != "" && creds.ClientSecret != "":
		client, err = reddit.NewReadonlyClient(
			redditOpts(applicationOnly(&hc, creds), creds, append([]reddit.Opt{reddit.WithBaseURL(redditOAuthURL)}, opts...))...,
		)
	default:
		if creds.ClientID != "" {
			log.Printf("[WARN] reddit client id is set without secret, using anonymous read-only access")
		}
		client, err = reddit.NewReadonlyClient(redditOpts(&hc, creds, opts)...)
	}
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}

	return &RedditSource{client: client}, nil
}

func redditOpts(hc *http.Client, creds RedditCredentials, opts []reddit.Opt) []reddit.Opt {
	return append([]reddit.Opt{
		reddit.WithHTTPClient(hc),
		reddit.WithUserAgent(creds.UserAgent),
	}, opts...)
}

// applicationOnly возвращает клиент с токеном client_credentials
func applicationOnly(hc *http.Client, creds RedditCredentials) *http.Client {
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = redditTokenURL
	}

	conf := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Reddit режет запросы токена без своего User-Agent
	tokenClient := *hc
	tokenClient.Transport = userAgent{agent: creds.UserAgent, base: hc.Transport}

	client := conf.Client(context.WithValue(context.Background(), oauth2.HTTPClient, &tokenClient))
	client.Timeout = hc.Timeout

	return client
}

type userAgent struct {
	agent string
	base  http.RoundTripper
}

func (u userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	base := u.base
	if base == nil {
		base = http.DefaultTransport
	}

	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", u.agent)

	return base.RoundTrip(r)
}

// TopPost возвращает лучший пост сабреддита за сутки
func (s *RedditSource) TopPost(ctx context.Context, subreddit string) (*RedditTop, error) {
	posts, _, err := s.client.Subreddit.TopPosts(ctx, subreddit, &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: 1},
		Time:        "day",
	})
	if err != nil {
		return nil, fmt.Errorf("top posts of r/%s: %w", subreddit, err)
	}

	if len(posts) == 0 {
		return nil, fmt.Errorf("r/%s has no posts today", subreddit)
	}

	p := posts[0]

	return &RedditTop{
		Subreddit:   subreddit,
		Title:       p.Title,
		Score:       p.Score,
		URL:         p.URL,
		PostURL:     permalink(p.Permalink),
		NumComments: p.NumberOfComments,
		UpvoteRatio: p.UpvoteRatio,
		Author:      p.Author,
		Content:     p.Body,
		IsSelf:      p.IsSelfPost,
	}, nil
}

func permalink(p string) string {
	if strings.HasPrefix(p, "http") {
		return p
	}

	return "https://reddit.com" + p
}
