// Package oracle talks to the generative AI provider used for candidate
// suggestion and profile enrichment.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/metrics"
)

// Source is the metrics and error label for oracle calls.
const Source = "oracle"

// Request is a single prompt. There is no conversation state.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Oracle returns the raw text completion for a prompt.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// New builds the provider selected in cfg. The returned func releases any
// provider resources and is never nil.
func New(ctx context.Context, cfg config.OracleConfig) (Oracle, func(), error) {
	timeout := config.GetDuration(cfg.Timeout)

	switch cfg.Provider {
	case config.OracleProviderGemini:
		g, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, timeout)
		if err != nil {
			return nil, func() {}, err
		}
		return g, g.Close, nil
	case config.OracleProviderGroq, "":
		return NewChatClient(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}

// StripCodeFence removes a markdown code fence around a JSON answer: the
// opening ``` with an optional "json" tag, the closing fence if present, and
// stray trailing backticks.
func StripCodeFence(text string) string {
	t := text
	if i := strings.Index(t, "```"); i >= 0 {
		t = t[i+3:]
		if j := strings.Index(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
		if len(t) >= 4 && strings.EqualFold(t[:4], "json") {
			t = t[4:]
		}
	}
	t = strings.TrimSpace(t)
	return strings.TrimSpace(strings.TrimRight(t, "`"))
}

func observe(started time.Time) {
	metrics.ProviderCallDuration.WithLabelValues(Source).Observe(time.Since(started).Seconds())
}
