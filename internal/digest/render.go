package digest

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

// Header - то, что стоит над оглавлением письма. Все поля опциональны
type Header struct {
	CoverImageURL string
	// Саммари выпуска в markdown
	Summary               string
	ManageSubscriptionURL string
}

// Минуты чтения на один элемент раздела
const (
	arxivReadMinutes      = 3
	githubReadMinutes     = 2
	hackernewsReadMinutes = 1
	redditReadMinutes     = 2
)

type section struct {
	Count   int
	Minutes int
}

type page struct {
	Header     Header
	Summary    template.HTML
	News       model.News
	Arxiv      section
	Github     section
	Hackernews section
	Reddit     section
}

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()

	emailTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
		"inc":      func(i int) int { return i + 1 },
		"language": language,
	}).Parse(emailHTML))
)

// Render собирает HTML письма из последних списков каждого источника
func Render(news model.News, header Header) (string, error) {
	summary, err := renderSummary(header.Summary)
	if err != nil {
		return "", err
	}

	data := page{
		Header:     header,
		Summary:    summary,
		News:       news,
		Arxiv:      section{Count: len(news.Arxiv), Minutes: len(news.Arxiv) * arxivReadMinutes},
		Github:     section{Count: len(news.Github), Minutes: len(news.Github) * githubReadMinutes},
		Hackernews: section{Count: len(news.Hackernews), Minutes: len(news.Hackernews) * hackernewsReadMinutes},
		Reddit:     section{Count: len(news.Reddit), Minutes: len(news.Reddit) * redditReadMinutes},
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}

	return buf.String(), nil
}

// Саммари пишет LLM, поэтому после goldmark прогоняем через bluemonday
func renderSummary(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render summary markdown: %w", err)
	}

	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

func language(lang string) string {
	if lang == "" || lang == "Unknown" {
		return "No language"
	}
	return lang
}
