package source

import (
	"context"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-shiori/go-readability"
)

// readability оставляет много пустых строк, схлопываем их
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

// ArticleText скачивает страницу и достает из нее основной текст
func ArticleText(ctx context.Context, client *http.Client, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	body, err := get(ctx, client, link, browserUA)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := readability.FromReader(body, pageURL)
	if err != nil {
		return "", err
	}

	return redundantNewLines.ReplaceAllString(doc.TextContent, "\n"), nil
}
