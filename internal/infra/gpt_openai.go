package infra

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"chronicle/internal/ports"
)

type GPTClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewGPTClient(apiKey string) ports.TextGenerator {
	return &GPTClient{
		client:    openai.NewClient(apiKey),
		model:     openai.GPT4o,
		maxTokens: 2000,
	}
}

func (g *GPTClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
