package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query</title>
  <id>http://arxiv.org/api/query</id>
  <updated>2026-10-14T00:00:00-04:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2410.01234v2</id>
    <updated>2026-10-13T17:59:59Z</updated>
    <published>2026-10-13T17:59:59Z</published>
    <title>Agents That
      Plan</title>
    <summary>  We study planning
      agents.  </summary>
    <author><name>A. Author</name></author>
    <link href="http://arxiv.org/abs/2410.01234v2" rel="alternate" type="text/html"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/cs/0112017v1</id>
    <updated>2026-10-12T10:00:00Z</updated>
    <title>Old Style</title>
    <summary>Legacy id.</summary>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

func TestStripVersion(t *testing.T) {
	tests := map[string]string{
		"2409.09032v1":  "2409.09032",
		"2409.09032v12": "2409.09032",
		"2409.09032":    "2409.09032",
		"cs/0112017v1":  "cs/0112017",
	}

	for in, want := range tests {
		assert.Equal(t, want, StripVersion(in), in)
	}
}

func TestQuery(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	start, end := DateRange(now, 7)

	assert.Equal(t, "2026-10-14", end.Format("2006-01-02"))
	assert.Equal(t, "2026-10-07", start.Format("2006-01-02"))
	assert.Equal(t, "cat:cs.AI AND submittedDate:[202610072359 TO 202610142359]", Query("cs.AI", start, end))
}

func TestArxivSource_Fetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		assert.Equal(t, "submittedDate", r.URL.Query().Get("sortBy"))

		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivFeed)
	}))
	defer srv.Close()

	s := NewArxivSourceWithURL(srv.Client(), srv.URL)
	s.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }

	papers, err := s.Fetch(context.Background(), "cs.AI", 7)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "cat:cs.AI AND submittedDate:[202610072359 TO 202610142359]", gotQuery)

	assert.Equal(t, "2410.01234", papers[0].ID)
	assert.Equal(t, "cs.CL", papers[0].Category)
	assert.Equal(t, "Agents That Plan", papers[0].Title)
	assert.Equal(t, "We study planning agents.", papers[0].Abstract)
	assert.Equal(t, "https://arxiv.org/abs/2410.01234", papers[0].PaperURL)

	assert.Equal(t, "cs/0112017", papers[1].ID)
	assert.Equal(t, "cs.AI", papers[1].Category)
}

func TestArxivSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewArxivSourceWithURL(srv.Client(), srv.URL).Fetch(context.Background(), "cs.AI", 7)
	assert.Error(t, err)
}

const trendingPage = `<html><body>
<article class="Box-row">
  <h2 class="h3 lh-condensed"><a href="/acme/agent-kit"> acme /
      agent-kit </a></h2>
  <p class="col-9 color-fg-muted my-1 pr-4">  Build LLM agents.  </p>
  <div>
    <span itemprop="programmingLanguage">Python</span>
    <a class="Link--muted d-inline-block mr-3" href="/acme/agent-kit/stargazers"> 12,345 </a>
    <a class="Link--muted d-inline-block mr-3" href="/acme/agent-kit/forks"> 1.2k </a>
    <span class="d-inline-block float-sm-right"> 987 stars today </span>
  </div>
</article>
<article class="Box-row">
  <h2><a href="/someone/dotfiles">someone / dotfiles</a></h2>
  <div>
    <a class="Link--muted" href="#">42</a>
  </div>
</article>
</body></html>`

func TestParseTrending(t *testing.T) {
	repos, err := ParseTrending(strings.NewReader(trendingPage))
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, model.Repo{
		Title:       "acme/agent-kit",
		URL:         "https://github.com/acme/agent-kit",
		Description: "Build LLM agents.",
		Language:    "Python",
		TotalStars:  12345,
		Forks:       1200,
		StarsToday:  987,
	}, repos[0])

	assert.Equal(t, "someone/dotfiles", repos[1].Title)
	assert.Equal(t, "Unknown", repos[1].Language)
	assert.Equal(t, 42, repos[1].TotalStars)
	assert.Equal(t, 0, repos[1].Forks)
	assert.Equal(t, 0, repos[1].StarsToday)
}

func TestParseCount(t *testing.T) {
	tests := map[string]int{
		"":       0,
		"42":     42,
		"12,345": 12345,
		"1.2k":   1200,
		"3K":     3000,
		"n/a":    0,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseCount(in), in)
	}
}

func TestGithubAPI_Readme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/agent-kit/readme":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"name":"README.md","encoding":"base64","content":"IyBBZ2VudCBLaXQ=","html_url":"https://github.com/acme/agent-kit/blob/main/README.md"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	defer srv.Close()

	api, err := NewGithubAPIWithURL(srv.Client(), srv.URL)
	require.NoError(t, err)

	readme, err := api.Readme(context.Background(), "acme/agent-kit")
	require.NoError(t, err)
	require.NotNil(t, readme)
	assert.Equal(t, "# Agent Kit", readme.Content)
	assert.Equal(t, "https://github.com/acme/agent-kit/blob/main/README.md", readme.HTMLURL)

	readme, err = api.Readme(context.Background(), "acme/no-readme")
	require.NoError(t, err)
	assert.Nil(t, readme)

	_, err = api.Readme(context.Background(), "broken")
	assert.Error(t, err)
}

const frontPage = `<html><body><table>
<tr class="athing"><td><span class="titleline"><a href="https://example.com/llm">New LLM released</a><span class="sitebit"> (example.com)</span></span></td></tr>
<tr class="athing"><td><span class="titleline"><a href="item?id=42">Ask HN: Favorite editor?</a></span></td></tr>
</table></body></html>`

const frontFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Hacker News</title><link>https://news.ycombinator.com/</link><description>Links</description>
<item><title>From the feed</title><link>https://example.com/feed</link><pubDate>Tue, 14 Oct 2026 10:00:00 +0000</pubDate></item>
</channel></rss>`

func TestParseFrontPage(t *testing.T) {
	posts, err := ParseFrontPage(strings.NewReader(frontPage), "https://news.ycombinator.com")
	require.NoError(t, err)

	assert.Equal(t, []model.HNPost{
		{Title: "New LLM released", Link: "https://example.com/llm"},
		{Title: "Ask HN: Favorite editor?", Link: "https://news.ycombinator.com/item?id=42"},
	}, posts)
}

func TestHackernewsSource_FallsBackToFeed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>maintenance</body></html>")
	})
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, frontFeed)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewHackernewsSourceWithURL(srv.Client(), srv.URL+"/", srv.URL+"/rss")

	posts, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.HNPost{{Title: "From the feed", Link: "https://example.com/feed"}}, posts)
}

func TestHackernewsSource_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, frontPage)
	}))
	defer srv.Close()

	s := NewHackernewsSourceWithURL(srv.Client(), srv.URL, srv.URL+"/rss")

	posts, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestArticleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Post</title></head><body><article><h1>Post</h1>
<p>Large language models keep getting better at reasoning over long documents, and this article explains how.</p>
<p>The authors benchmark several approaches and report consistent gains across every task they evaluated.</p>
<p>Retrieval augmented pipelines were compared with long context models on question answering, summarization and code understanding benchmarks.</p>
<p>In every setting the long context models matched or exceeded the retrieval baselines while being simpler to deploy and to maintain in production.</p>
</article></body></html>`)
	}))
	defer srv.Close()

	text, err := ArticleText(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Large language models keep getting better")
}

func redditListing(posts ...string) string {
	children := make([]string, 0, len(posts))
	for _, p := range posts {
		children = append(children, `{"kind":"t3","data":`+p+`}`)
	}

	return `{"kind":"Listing","data":{"children":[` + strings.Join(children, ",") + `]}}`
}

func redditServer(t *testing.T, authorization string) *httptest.Server {
	t.Helper()

	listings := map[string]string{
		"/r/LocalLLaMA/top": redditListing(`{
			"title": "Running a 70B model on a laptop",
			"score": 512,
			"url": "https://www.reddit.com/r/LocalLLaMA/comments/abc/running/",
			"permalink": "/r/LocalLLaMA/comments/abc/running/",
			"num_comments": 88,
			"upvote_ratio": 0.97,
			"author": "llama_fan",
			"selftext": "Here is my setup.",
			"is_self": true
		}`),
		"/r/OpenAI/top": redditListing(`{
			"title": "New model released",
			"score": 1024,
			"url": "https://openai.test/blog/new-model",
			"permalink": "/r/OpenAI/comments/def/new_model/",
			"num_comments": 300,
			"upvote_ratio": 0.9,
			"author": "newsbot",
			"is_self": false
		}`),
		"/r/quiet/top": redditListing(),
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			id, secret, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "app-id", id)
			assert.Equal(t, "app-secret", secret)
			assert.Equal(t, "agentic-news/test", r.Header.Get("User-Agent"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"app-token","token_type":"bearer","expires_in":3600}`)
			return
		}

		assert.Equal(t, authorization, r.Header.Get("Authorization"))
		assert.Equal(t, "agentic-news/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "day", r.URL.Query().Get("t"))

		listing, ok := listings[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, listing)
	}))
}

func TestRedditSource_TopPost(t *testing.T) {
	srv := redditServer(t, "")
	defer srv.Close()

	shared := srv.Client()
	transport := shared.Transport

	src, err := NewRedditSource(shared, RedditCredentials{UserAgent: "agentic-news/test"}, reddit.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// общий клиент приложения остается нетронутым
	assert.True(t, transport == shared.Transport)

	self, err := src.TopPost(context.Background(), "LocalLLaMA")
	require.NoError(t, err)
	assert.Equal(t, &RedditTop{
		Subreddit:   "LocalLLaMA",
		Title:       "Running a 70B model on a laptop",
		Score:       512,
		URL:         "https://www.reddit.com/r/LocalLLaMA/comments/abc/running/",
		PostURL:     "https://reddit.com/r/LocalLLaMA/comments/abc/running/",
		NumComments: 88,
		UpvoteRatio: 0.97,
		Author:      "llama_fan",
		Content:     "Here is my setup.",
		IsSelf:      true,
	}, self)

	link, err := src.TopPost(context.Background(), "OpenAI")
	require.NoError(t, err)
	assert.False(t, link.IsSelf)
	assert.Empty(t, link.Content)
	assert.Equal(t, "https://openai.test/blog/new-model", link.URL)
	assert.Equal(t, "https://reddit.com/r/OpenAI/comments/def/new_model/", link.PostURL)

	_, err = src.TopPost(context.Background(), "quiet")
	assert.ErrorContains(t, err, "no posts today")

	_, err = src.TopPost(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRedditSource_ApplicationOnly(t *testing.T) {
	srv := redditServer(t, "Bearer app-token")
	defer srv.Close()

	src, err := NewRedditSource(srv.Client(), RedditCredentials{
		ClientID:     "app-id",
		ClientSecret: "app-secret",
		UserAgent:    "agentic-news/test",
		TokenURL:     srv.URL + "/token",
	}, reddit.WithBaseURL(srv.URL))
	require.NoError(t, err)

	post, err := src.TopPost(context.Background(), "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "New model released", post.Title)
	assert.Equal(t, 1024, post.Score)
}

func TestPermalink(t *testing.T) {
	assert.Equal(t, "https://reddit.com/r/OpenAI/comments/abc/x/", permalink("/r/OpenAI/comments/abc/x/"))
	assert.Equal(t, "https://www.reddit.com/r/OpenAI/comments/abc/x/", permalink("https://www.reddit.com/r/OpenAI/comments/abc/x/"))
}

func TestPDFLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pdf/2410.01234" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer srv.Close()

	l := NewPDFLoaderWithURL(srv.Client(), srv.URL+"/pdf/")

	pdf, err := l.PDF(context.Background(), "2410.01234")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))

	_, err = l.PDF(context.Background(), "missing")
	assert.Error(t, err)
}
