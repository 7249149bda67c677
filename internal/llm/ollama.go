package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Локальная модель через ollama. Адрес сервера берется из OLLAMA_HOST
type OllamaClient struct {
	client  *ollama.Client
	model   string
	timeout time.Duration
}

func NewOllamaClient(model string, timeout time.Duration) (*OllamaClient, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, err
	}

	return &OllamaClient{client: client, model: model, timeout: timeout}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream := false

	var response strings.Builder
	err := c.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0,
		},
	}, func(res ollama.GenerateResponse) error {
		response.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(response.String())
	if out == "" {
		return "", ErrEmptyResponse
	}

	return out, nil
}
