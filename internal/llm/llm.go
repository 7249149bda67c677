package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// Модель ничего не вернула
	ErrEmptyResponse = errors.New("llm: empty response")
	// Клиент не настроен (нет ключа)
	ErrDisabled = errors.New("llm: client disabled")
)

// Completer отправляет промпт и получает ответ в JSON режиме
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator генерирует картинку по описанию и возвращает PNG
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// CompleteJSON вызывает модель и раскладывает ответ в T
func CompleteJSON[T any](ctx context.Context, c Completer, prompt string) (T, error) {
	var out T

	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return out, err
	}

	raw = stripCodeFence(raw)
	if raw == "" {
		return out, ErrEmptyResponse
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("decode llm json: %w", err)
	}

	return out, nil
}

// Некоторые модели, особенно локальные, оборачивают JSON в ```json ... ```
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
