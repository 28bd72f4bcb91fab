// Package openai is the one shipped enrichment plugin: it asks an
// OpenAI-compatible chat API for a few extra observations about the query.
// It is optional; the analysis core is complete without it.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/query"
	"github.com/bayoudata/houston-intel/internal/metrics"
	"github.com/bayoudata/houston-intel/internal/usecase/analyze"
)

const systemPrompt = "You are a Houston, Texas real-estate research assistant. " +
	"Answer with short, factual bullet points, one observation per line, no preamble."

// DefaultMaxInsights bounds the insights one enrichment call contributes.
const DefaultMaxInsights = 3

// Enricher asks a chat-completion API for supplementary insights.
type Enricher struct {
	client      *openai.Client
	model       string
	provider    string
	maxInsights int
	logger      *zap.Logger
}

var _ analyze.Enricher = (*Enricher)(nil)

// Config holds the enrichment provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Provider    string
	MaxInsights int
	Logger      *zap.Logger
}

// New creates the enricher.
func New(cfg *Config) *Enricher {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxInsights := cfg.MaxInsights
	if maxInsights <= 0 {
		maxInsights = DefaultMaxInsights
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		provider:    provider,
		maxInsights: maxInsights,
		logger:      log,
	}
}

// Name implements analyze.Enricher.
func (e *Enricher) Name() string { return "AI Research" }

// Enrich implements analyze.Enricher.
func (e *Enricher) Enrich(
	ctx context.Context, queryText string, intent query.Intent,
) (analyze.Enrichment, error) {
	prompt := fmt.Sprintf("Query (%s): %s\nGive at most %d observations.",
		intent.Label(), queryText, e.maxInsights)

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(e.provider, "error").Inc()
		return analyze.Enrichment{}, fmt.Errorf("%w: %w", domain.ErrEnrichmentProviderError, err)
	}
	metrics.EnrichmentRequestsTotal.WithLabelValues(e.provider, "success").Inc()
	e.logger.Debug("enrichment completed",
		zap.String("provider", e.provider),
		zap.Duration("latency", time.Since(start)),
	)

	if len(resp.Choices) == 0 {
		return analyze.Enrichment{}, nil
	}
	return analyze.Enrichment{Insights: parseInsights(resp.Choices[0].Message.Content, e.maxInsights)}, nil
}

// parseInsights splits the completion into clean one-line observations.
func parseInsights(content string, limit int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789. "))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) >= limit {
			break
		}
	}
	return out
}
