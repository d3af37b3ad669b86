// internal/intel/oracle/gemini.go
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "intelcorp/internal/common/errors"
)

// GeminiClient calls Gemini through the generative-ai-go SDK. A model handle
// is built per call so concurrent requests never share generation settings.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, opts ...option.ClientOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, modelName: model, timeout: timeout}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	defer observe(time.Now())

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", apperrors.NewTransportError(Source, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", apperrors.NewEmptyResultError(Source)
	}
	return text, nil
}

// Close releases the SDK connection.
func (g *GeminiClient) Close() {
	if g == nil || g.client == nil {
		return
	}
	_ = g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}
