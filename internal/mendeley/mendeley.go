// Package mendeley достает число читателей статей arXiv из каталога Mendeley.
package mendeley

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
)

const (
	defaultBaseURL = "https://api.mendeley.com"
	documentMedia  = "application/vnd.mendeley-document.1+json"
	DefaultWorkers = 100
)

var ErrNotFound = errors.New("mendeley: document not found")

type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	// Размер пула на каждую из двух фаз
	Workers int
	BaseURL string
}

type Client struct {
	cfg  Config
	base *http.Client
}

func New(cfg Config, base *http.Client) *Client {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if base == nil {
		base = http.DefaultClient
	}

	return &Client{cfg: cfg, base: base}
}

// AccessToken меняет refresh token на access token
func (c *Client) AccessToken(ctx context.Context) (*oauth2.Token, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" || c.cfg.RefreshToken == "" {
		return nil, errors.New("mendeley credentials are not configured")
	}

	conf := &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.BaseURL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh mendeley token: %w", err)
	}

	return token, nil
}

// AddReaderCounts проставляет ReaderCount каждой статье. Порядок сохраняется,
// любая неудача дает 0 и не валит весь батч
func (c *Client) AddReaderCounts(ctx context.Context, papers []model.Paper) []model.Paper {
	out := append([]model.Paper(nil), papers...)
	for i := range out {
		out[i].ReaderCount = 0
	}

	if len(papers) == 0 {
		return out
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		log.Printf("[ERROR] mendeley: %v, reader counts default to 0", err)
		return out
	}

	// Токен не обновляем посреди батча: если он протухнет, счетчики будут нулевыми
	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, c.base),
		oauth2.StaticTokenSource(token),
	)

	arxivIDs := make([]string, 0, len(papers))
	for _, p := range papers {
		arxivIDs = append(arxivIDs, p.ID)
	}

	catalogIDs := c.catalogIDs(ctx, client, arxivIDs)
	counts := c.readerCounts(ctx, client, catalogIDs)

	for i := range out {
		if id, ok := catalogIDs[out[i].ID]; ok {
			out[i].ReaderCount = counts[id]
		}
	}

	return out
}

// Первая фаза: arXiv ID -> ID документа в каталоге
func (c *Client) catalogIDs(ctx context.Context, client *http.Client, arxivIDs []string) map[string]string {
	var (
		mu  sync.Mutex
		ids = make(map[string]string, len(arxivIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for _, arxivID := range arxivIDs {
		g.Go(func() error {
			id, err := c.CatalogID(gctx, client, arxivID)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					log.Printf("[ERROR] mendeley catalog lookup for %s: %v", arxivID, err)
				}
				return nil
			}

			mu.Lock()
			ids[arxivID] = id
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return ids
}

// Вторая фаза: ID документа -> число читателей
func (c *Client) readerCounts(ctx context.Context, client *http.Client, catalogIDs map[string]string) map[string]int {
	var (
		mu     sync.Mutex
		counts = make(map[string]int, len(catalogIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for _, id := range catalogIDs {
		g.Go(func() error {
			n, err := c.ReaderCount(gctx, client, id)
			if err != nil {
				log.Printf("[ERROR] mendeley reader count for %s: %v", id, err)
				return nil
			}

			mu.Lock()
			counts[id] = n
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return counts
}

// CatalogID ищет документ каталога по arXiv ID
func (c *Client) CatalogID(ctx context.Context, client *http.Client, arxivID string) (string, error) {
	var docs []struct {
		ID string `json:"id"`
	}

	if err := c.getJSON(ctx, client, c.cfg.BaseURL+"/catalog?arxiv="+url.QueryEscape(arxivID), &docs); err != nil {
		return "", err
	}

	if len(docs) == 0 || docs[0].ID == "" {
		return "", ErrNotFound
	}

	return docs[0].ID, nil
}

// ReaderCount возвращает reader_count документа, отсутствие поля - 0
func (c *Client) ReaderCount(ctx context.Context, client *http.Client, catalogID string) (int, error) {
	var stats struct {
		ReaderCount *int `json:"reader_count"`
	}

	if err := c.getJSON(ctx, client, c.cfg.BaseURL+"/catalog/"+url.PathEscape(catalogID)+"?view=stats", &stats); err != nil {
		return 0, err
	}

	if stats.ReaderCount == nil {
		return 0, nil
	}

	return *stats.ReaderCount, nil
}

func (c *Client) getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", documentMedia)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
