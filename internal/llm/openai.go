package llm

import (
	"context"
	"encoding/base64"
	"log"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Клиент OpenAI: чат в JSON режиме и генерация обложки
type OpenAIClient struct {
	client     *openai.Client
	model      string
	imageModel string
	// Флаг вкл/выкл, если ключ не задан
	enabled bool
}

func NewOpenAIClient(apiKey, model, imageModel string) *OpenAIClient {
	return newOpenAIClient(openai.DefaultConfig(apiKey), apiKey != "", model, imageModel)
}

// NewOpenAIClientWithBaseURL нужен для совместимых API и для тестов
func NewOpenAIClientWithBaseURL(apiKey, baseURL, model, imageModel string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return newOpenAIClient(cfg, apiKey != "", model, imageModel)
}

func newOpenAIClient(cfg openai.ClientConfig, enabled bool, model, imageModel string) *OpenAIClient {
	log.Printf("[INFO] openai client enabled: %v", enabled)

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		imageModel: imageModel,
		enabled:    enabled,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}

	request := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		// 0 съедается omitempty, поэтому минимальное ненулевое значение
		Temperature: math.SmallestNonzeroFloat32,
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}

	// Берем первый вариант ответа
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}

	// Ссылки OpenAI живут недолго, поэтому просим base64 и сами кладем в S3
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		Size:           openai.CreateImageSize1792x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}

	return base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
}
