// Package generative wraps the text-generation provider used for discovery
// and as the fallback data source. The provider makes no guarantee that its
// output is well-formed; validation happens downstream.
package generative

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"creatorscout/internal/prompt"
)

// TextGenerator produces raw text from a prompt spec.
type TextGenerator interface {
	GenerateText(ctx context.Context, p prompt.Spec) (string, error)
}

// OpenAI is the production TextGenerator.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) GenerateText(ctx context.Context, p prompt.Spec) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
