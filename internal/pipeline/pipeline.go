// Package pipeline собирает новости из источников: fetch, фильтры, обогащение и
// сохранение одной строкой на запуск.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/samber/lo"

	"github.com/kovalyov-valentin/agentic-news/internal/metrics"
	"github.com/kovalyov-valentin/agentic-news/internal/storage"
)

// PostStorage - куда пайплайны пишут результат и откуда берут прошлые запуски
type PostStorage interface {
	storage.RawReader
	Insert(ctx context.Context, table storage.Table, posts any) (int64, error)
}

type Pipeline interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner запускает пайплайны по очереди. Упавший пайплайн не мешает следующим
type Runner struct {
	pipelines []Pipeline
}

func NewRunner(pipelines ...Pipeline) *Runner {
	return &Runner{pipelines: pipelines}
}

func (r *Runner) Names() []string {
	return lo.Map(r.pipelines, func(p Pipeline, _ int) string { return p.Name() })
}

// RunAll запускает все пайплайны
func (r *Runner) RunAll(ctx context.Context) error {
	return r.Run(ctx)
}

// Run запускает пайплайны с указанными именами, без имен - все
func (r *Runner) Run(ctx context.Context, names ...string) error {
	selected := r.pipelines
	if len(names) > 0 {
		for _, name := range names {
			if !lo.Contains(r.Names(), name) {
				return fmt.Errorf("unknown source %q, available: %v", name, r.Names())
			}
		}

		selected = lo.Filter(r.pipelines, func(p Pipeline, _ int) bool {
			return lo.Contains(names, p.Name())
		})
	}

	var errs []error
	for _, p := range selected {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		log.Printf("[INFO] running %s pipeline", p.Name())
		started := time.Now()

		err := p.Run(ctx)
		metrics.RecordPipeline(p.Name(), err, time.Since(started).Seconds())

		if err != nil {
			log.Printf("[ERROR] %s pipeline failed: %v", p.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		log.Printf("[INFO] %s pipeline finished in %s", p.Name(), time.Since(started).Round(time.Second))
	}

	return errors.Join(errs...)
}

// seen достает ключи элементов из прошлых запусков. Ошибка не критична:
// в худшем случае повторим то, что уже было
func seen[T any](ctx context.Context, posts PostStorage, table storage.Table, runs int, key func(T) string) []string {
	if runs <= 0 {
		return nil
	}

	items, err := storage.Recent[T](ctx, posts, table, runs)
	if err != nil {
		log.Printf("[WARN] failed to load previous %s runs: %v", table, err)
		return nil
	}

	return lo.Map(items, func(item T, _ int) string { return key(item) })
}
