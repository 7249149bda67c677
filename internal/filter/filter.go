// Package filter отсеивает уже разосланное, лишние категории и обрезает списки до top-N.
package filter

import (
	"sort"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/agentic-news/internal/model"
	"github.com/kovalyov-valentin/agentic-news/internal/source"
)

// NewPapers убирает статьи, которые уже были в прошлых выпусках. Версии не учитываются
func NewPapers(papers []model.Paper, seenIDs []string) []model.Paper {
	seen := set.New(lo.Map(seenIDs, func(id string, _ int) string {
		return source.StripVersion(id)
	})...)

	return lo.Filter(papers, func(p model.Paper, _ int) bool {
		return !seen.Contains(source.StripVersion(p.ID))
	})
}

// InCategories оставляет статьи из выбранных категорий. Пустой список - без фильтра
func InCategories(papers []model.Paper, categories []string) []model.Paper {
	if len(categories) == 0 {
		return papers
	}

	allowed := set.New(categories...)

	return lo.Filter(papers, func(p model.Paper, _ int) bool {
		return allowed.Contains(p.Category)
	})
}

// TopPapersByReaders - n статей с наибольшим числом читателей Mendeley.
// При равенстве сохраняется исходный порядок
func TopPapersByReaders(papers []model.Paper, n int) []model.Paper {
	sorted := append([]model.Paper(nil), papers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReaderCount > sorted[j].ReaderCount
	})

	return truncate(sorted, n)
}

// NewRepos убирает репозитории, которые уже попадали в рассылку
func NewRepos(repos []model.Repo, seenURLs []string) []model.Repo {
	seen := set.New(seenURLs...)

	return lo.Filter(repos, func(r model.Repo, _ int) bool {
		return !seen.Contains(r.URL)
	})
}

// TopReposByStars ранжирует по звездам за сегодня, затем по общему числу звезд
func TopReposByStars(repos []model.Repo, n int) []model.Repo {
	sorted := append([]model.Repo(nil), repos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StarsToday != sorted[j].StarsToday {
			return sorted[i].StarsToday > sorted[j].StarsToday
		}
		return sorted[i].TotalStars > sorted[j].TotalStars
	})

	return truncate(sorted, n)
}

// NewHNPosts убирает посты, ссылки которых уже были, и дубли внутри списка
func NewHNPosts(posts []model.HNPost, seenLinks []string) []model.HNPost {
	seen := set.New(seenLinks...)

	fresh := lo.Filter(posts, func(p model.HNPost, _ int) bool {
		return !seen.Contains(p.Link)
	})

	return lo.UniqBy(fresh, func(p model.HNPost) string {
		return p.Link
	})
}

// n <= 0 значит без ограничения
func truncate[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}

	return items[:n]
}
