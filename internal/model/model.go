package model

import "time"

// Статья с arXiv, как она уходит в базу и в письмо
type Paper struct {
	// ID без версии, например 2409.09032
	ID       string `json:"paper_id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	// Аннотация нужна только для обогащения, в базу не пишем
	Abstract    string        `json:"-"`
	ReaderCount int           `json:"reader_count"`
	ImageURL    string        `json:"image_url"`
	PaperURL    string        `json:"paper_url"`
	AISummary   *PaperSummary `json:"ai_summary,omitempty"`
}

// Выжимка статьи от LLM, каждая часть - список буллетов
type PaperSummary struct {
	Insights []string `json:"insights"`
	Problem  []string `json:"problem"`
	Solution []string `json:"solution"`
	Results  []string `json:"results"`
}

// Репозиторий из GitHub trending
type Repo struct {
	// full_name вида owner/name
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
	Language    string       `json:"language"`
	TotalStars  int          `json:"total_stars"`
	StarsToday  int          `json:"stars_today"`
	Forks       int          `json:"forks_count"`
	Screenshot  string       `json:"screenshot"`
	GraphURL    string       `json:"graph_url"`
	AIContent   *RepoContent `json:"ai_content,omitempty"`
}

// Выжимка README от LLM
type RepoContent struct {
	Features            []string `json:"features"`
	UseCases            []string `json:"use cases"`
	TechnicalHighlights []string `json:"technical highlights"`
}

// Пост с главной Hacker News
type HNPost struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Топ пост сабреддита за день
type RedditPost struct {
	Subreddit   string `json:"subreddit"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	Summary     string `json:"summary"`
}

// Последние списки по каждому источнику, из них собирается дайджест
type News struct {
	Arxiv      []Paper
	Github     []Repo
	Hackernews []HNPost
	Reddit     []RedditPost
}

// Собранный дайджест
type Digest struct {
	ID            int64
	Title         string
	Summary       string
	HTML          string
	CoverImageURL string
	CreatedAt     time.Time
}

// Подписчик рассылки
type Subscriber struct {
	ID        int64
	Email     string
	Active    bool
	CreatedAt time.Time
}
