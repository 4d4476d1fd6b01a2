package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Summarizer condenses an article for display under a story.
type Summarizer interface {
	// SummarizeArticle returns a 2-4 sentence summary in the given language.
	SummarizeArticle(ctx context.Context, title, content, language string) (string, error)
}

// OpenAIClient implements Summarizer using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key must be specified")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

func (o *OpenAIClient) SummarizeArticle(ctx context.Context, title, content, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	// Trim inputs to keep tokens reasonable
	content = strings.TrimSpace(content)
	if content == "" {
		content = title
	}
	if len([]rune(content)) > 3000 {
		content = string([]rune(content)[:3000])
	}

	sys := fmt.Sprintf(`
		Summarize the article for a reader deciding whether to open it. Write in %s.
		Return 2-4 plain sentences, no lists, no links, no preamble.
		`, langOrDefault(language))
	user := fmt.Sprintf("Title: %s\nContent: %s", title, content)
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: summarize article error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
