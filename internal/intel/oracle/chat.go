// internal/intel/oracle/chat.go
package oracle

import (
	"context"
	"strings"
	"time"

	apperrors "intelcorp/internal/common/errors"
	httpclient "intelcorp/internal/common/http"
)

// ChatClient calls an OpenAI-compatible chat-completions endpoint (Groq by
// default). It sends one user message per call and never retries.
type ChatClient struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
	model   string
}

func NewChatClient(baseURL, apiKey, model string, timeout time.Duration) *ChatClient {
	return &ChatClient{
		client:  httpclient.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	defer observe(time.Now())

	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp chatResponse
	if err := c.client.PostJSON(ctx, Source, c.baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", apperrors.NewEmptyResultError(Source)
	}
	return resp.Choices[0].Message.Content, nil
}
