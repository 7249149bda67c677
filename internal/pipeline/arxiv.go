package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/kovalyov-valentin/agentic-news/internal/filter"
	"github.com/kovalyov-valentin/agentic-news/internal/llm"
	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
	"github.com/kovalyov-valentin/agentic-news/internal/model"
	"github.com/kovalyov-valentin/agentic-news/internal/objectstore"
	"github.com/kovalyov-valentin/agentic-news/internal/pdfmark"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

type PaperFetcher interface {
	Fetch(ctx context.Context, category string, windowDays int) ([]model.Paper, error)
}

type ReaderCounter interface {
	AddReaderCounts(ctx context.Context, papers []model.Paper) []model.Paper
}

type PDFLoader interface {
	PDF(ctx context.Context, id string) ([]byte, error)
}

type Highlighter interface {
	Render(pdf []byte, title string, spans []string) ([]byte, error)
}

// Фразы аннотации, которые LLM предлагает подсветить
type highlightSpans struct {
	Text []string `json:"text"`
}

type ArxivConfig struct {
	QueryCategory string
	WindowDays    int
	// Пустой список - без фильтра по категориям
	Categories []string
	TopN       int
	TextLimit  int
	DedupeRuns int
}

type Arxiv struct {
	papers      PaperFetcher
	readers     ReaderCounter
	pdfs        PDFLoader
	highlighter Highlighter
	completer   llm.Completer
	uploader    objectstore.Uploader
	posts       PostStorage
	cfg         ArxivConfig

	pageText func(pdf []byte, limit int) (string, error)
}

func NewArxiv(
	papers PaperFetcher,
	readers ReaderCounter,
	pdfs PDFLoader,
	highlighter Highlighter,
	completer llm.Completer,
	uploader objectstore.Uploader,
	posts PostStorage,
	cfg ArxivConfig,
) *Arxiv {
	return &Arxiv{
		papers:      papers,
		readers:     readers,
		pdfs:        pdfs,
		highlighter: highlighter,
		completer:   completer,
		uploader:    uploader,
		posts:       posts,
		cfg:         cfg,
		pageText:    pdfmark.PageText,
	}
}

func (a *Arxiv) Name() string { return "arxiv" }

func (a *Arxiv) Run(ctx context.Context) error {
	papers, err := a.papers.Fetch(ctx, a.cfg.QueryCategory, a.cfg.WindowDays)
	if err != nil {
		return fmt.Errorf("fetch papers: %w", err)
	}
	metrics.RecordItems(a.Name(), "fetched", len(papers))
	log.Printf("[INFO] fetched %d papers from arxiv", len(papers))

	seenIDs := seen(ctx, a.posts, storage.TableArxiv, a.cfg.DedupeRuns, func(p model.Paper) string { return p.ID })

	papers = filter.NewPapers(papers, seenIDs)
	papers = filter.InCategories(papers, a.cfg.Categories)
	papers = a.readers.AddReaderCounts(ctx, papers)
	papers = filter.TopPapersByReaders(papers, a.cfg.TopN)
	metrics.RecordItems(a.Name(), "kept", len(papers))

	for i := range papers {
		a.enrich(ctx, &papers[i])
	}

	if _, err := a.posts.Insert(ctx, storage.TableArxiv, papers); err != nil {
		return fmt.Errorf("store papers: %w", err)
	}

	return nil
}

// enrich добавляет картинку с подсветкой и саммари. Любая неудача оставляет поле пустым
func (a *Arxiv) enrich(ctx context.Context, paper *model.Paper) {
	pdf, err := a.pdfs.PDF(ctx, paper.ID)
	if err != nil {
		log.Printf("[ERROR] paper %s: %v", paper.ID, err)
		metrics.RecordFailure(a.Name(), "pdf")
		return
	}

	paper.ImageURL = a.highlight(ctx, paper, pdf)

	text, err := a.pageText(pdf, a.cfg.TextLimit)
	if err != nil {
		log.Printf("[ERROR] paper %s: extract text: %v", paper.ID, err)
		metrics.RecordFailure(a.Name(), "text")
		return
	}

	summary, err := llm.CompleteJSON[model.PaperSummary](ctx, a.completer, llm.PaperSummaryPrompt(text))
	if err != nil {
		log.Printf("[ERROR] paper %s: summarize: %v", paper.ID, err)
		metrics.RecordFailure(a.Name(), "summary")
		return
	}

	paper.AISummary = &summary
	metrics.RecordItems(a.Name(), "enriched", 1)
}

func (a *Arxiv) highlight(ctx context.Context, paper *model.Paper, pdf []byte) string {
	spans, err := llm.CompleteJSON[highlightSpans](ctx, a.completer, llm.HighlightPrompt(paper.Abstract))
	if err != nil {
		// Без фраз подсветим хотя бы заголовок
		log.Printf("[WARN] paper %s: no highlight spans: %v", paper.ID, err)
	}

	image, err := a.highlighter.Render(pdf, paper.Title, spans.Text)
	if err != nil {
		log.Printf("[ERROR] paper %s: render highlights: %v", paper.ID, err)
		metrics.RecordFailure(a.Name(), "highlight")
		return ""
	}

	url, err := a.uploader.Upload(ctx, objectstore.NewKey("output_", ".png"), objectstore.ContentTypePNG, image)
	if err != nil {
		log.Printf("[ERROR] paper %s: upload image: %v", paper.ID, err)
		metrics.RecordFailure(a.Name(), "upload")
		return ""
	}

	return url
}
