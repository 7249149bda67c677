package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const (
	arxivAPIURL   = "http://export.arxiv.org/api/query"
	arxivPageSize = 500
	// Страховка от бесконечной пагинации
	arxivMaxPages = 40
)

var arxivVersion = regexp.MustCompile(`v\d+$`)

// Клиент поискового API arXiv. Ответ приходит в Atom, его разбирает gofeed
type ArxivSource struct {
	baseURL string
	parser  *gofeed.Parser
	now     func() time.Time
}

func NewArxivSource(client *http.Client) *ArxivSource {
	return NewArxivSourceWithURL(client, arxivAPIURL)
}

func NewArxivSourceWithURL(client *http.Client, baseURL string) *ArxivSource {
	parser := gofeed.NewParser()
	parser.Client = client

	return &ArxivSource{baseURL: baseURL, parser: parser, now: time.Now}
}

// StripVersion убирает суффикс версии: 2409.09032v2 -> 2409.09032
func StripVersion(id string) string {
	return arxivVersion.ReplaceAllString(id, "")
}

// DateRange возвращает окно поиска: конец - вчера, начало - за windowDays до конца
func DateRange(now time.Time, windowDays int) (time.Time, time.Time) {
	end := now.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -windowDays)
	return start, end
}

// Query собирает поисковый запрос по категории и окну дат
func Query(category string, start, end time.Time) string {
	return fmt.Sprintf(
		"cat:%s AND submittedDate:[%s2359 TO %s2359]",
		category,
		start.Format("20060102"),
		end.Format("20060102"),
	)
}

// Fetch забирает все статьи категории за окно в windowDays дней
func (s *ArxivSource) Fetch(ctx context.Context, category string, windowDays int) ([]model.Paper, error) {
	start, end := DateRange(s.now(), windowDays)
	query := Query(category, start, end)

	var papers []model.Paper
	for page := 0; page < arxivMaxPages; page++ {
		feed, err := s.parser.ParseURLWithContext(s.pageURL(query, page*arxivPageSize), ctx)
		if err != nil {
			return nil, fmt.Errorf("arxiv query %q page %d: %w", query, page, err)
		}

		for _, item := range feed.Items {
			papers = append(papers, paperFromItem(item))
		}

		// Неполная страница - дальше ничего нет
		if len(feed.Items) < arxivPageSize {
			break
		}
	}

	return papers, nil
}

func (s *ArxivSource) pageURL(query string, offset int) string {
	params := url.Values{
		"search_query": {query},
		"start":        {fmt.Sprint(offset)},
		"max_results":  {fmt.Sprint(arxivPageSize)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	return s.baseURL + "?" + params.Encode()
}

func paperFromItem(item *gofeed.Item) model.Paper {
	id := StripVersion(arxivIDFromURL(item.GUID))
	if id == "" {
		id = StripVersion(arxivIDFromURL(item.Link))
	}

	return model.Paper{
		ID:       id,
		Category: primaryCategory(item),
		Title:    collapseSpaces(item.Title),
		Abstract: collapseSpaces(item.Description),
		PaperURL: AbsURL(id),
	}
}

// AbsURL - ссылка на страницу статьи
func AbsURL(id string) string {
	return "https://arxiv.org/abs/" + id
}

// PDFURL - ссылка на PDF статьи
func PDFURL(id string) string {
	return "https://arxiv.org/pdf/" + id
}

// Идентификатор лежит в ссылке вида http://arxiv.org/abs/2409.09032v1,
// у старых статей он со слешем: http://arxiv.org/abs/cs/0112017v1
func arxivIDFromURL(link string) string {
	idx := strings.Index(link, "/abs/")
	if idx < 0 {
		return ""
	}

	return strings.TrimSpace(link[idx+len("/abs/"):])
}

func primaryCategory(item *gofeed.Item) string {
	if exts, ok := item.Extensions["arxiv"]; ok {
		if pc, ok := exts["primary_category"]; ok && len(pc) > 0 {
			if term := pc[0].Attrs["term"]; term != "" {
				return term
			}
		}
	}

	if len(item.Categories) > 0 {
		return item.Categories[0]
	}

	return ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PDFLoader скачивает PDF статей с arxiv.org
type PDFLoader struct {
	client  *http.Client
	baseURL string
}

func NewPDFLoader(client *http.Client) *PDFLoader {
	return &PDFLoader{client: client, baseURL: "https://arxiv.org/pdf/"}
}

func NewPDFLoaderWithURL(client *http.Client, baseURL string) *PDFLoader {
	return &PDFLoader{client: client, baseURL: strings.TrimSuffix(baseURL, "/") + "/"}
}

func (l *PDFLoader) PDF(ctx context.Context, id string) ([]byte, error) {
	body, err := get(ctx, l.client, l.baseURL+id, browserUA)
	if err != nil {
		return nil, fmt.Errorf("download pdf %s: %w", id, err)
	}
	defer body.Close()

	return io.ReadAll(body)
}
