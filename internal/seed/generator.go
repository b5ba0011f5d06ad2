// ABOUTME: Optional AI-backed company names for generated records.
// ABOUTME: Pre-generates a pool through OpenAI; an empty pool lets the factory fake names instead.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultModel = "gpt-5-mini"

// chatCompleter is the slice of the OpenAI client the generator needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator hands out company names. Without an API key, or after a failed
// request, it has no names and the record factory uses faked ones.
type Generator struct {
	client chatCompleter
	model  string
	logger *zap.Logger
	pool   []string
}

func NewGenerator(apiKey, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = defaultModel
	}
	g := &Generator{model: model, logger: logger}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	}
	return g
}

// Enabled reports whether an OpenAI client is configured.
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Prepare fills the pool with count company names. Failures are logged and
// leave the pool as it was.
func (g *Generator) Prepare(ctx context.Context, count int) {
	if g.client == nil || count <= 0 {
		return
	}

	g.logger.Info("generating company names via AI", zap.Int("count", count), zap.String("model", g.model))
	names, err := g.generateCompanies(ctx, count)
	if err != nil {
		g.logger.Warn("AI generation failed, falling back to faked names", zap.Error(err))
		return
	}

	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			g.pool = append(g.pool, n)
		}
	}
	g.logger.Info("AI generation complete", zap.Int("names", len(g.pool)))
}

// CompanyName pops the next pooled name, or returns "" when the pool is empty.
func (g *Generator) CompanyName() string {
	if len(g.pool) == 0 {
		return ""
	}
	name := g.pool[0]
	g.pool = g.pool[1:]
	return name
}

func (g *Generator) generateCompanies(ctx context.Context, count int) ([]string, error) {
	prompt := fmt.Sprintf(`Generate %d realistic fake US company names for a B2B CRM sandbox. Include a mix of:
- Technology and software firms
- Banks, insurers and other financial services
- Hospitals, clinics and healthcare suppliers
- Food and beverage producers and distributors

Return as a JSON array of strings. Names must be unique and must not be real, well-known brands.`, count)

	return callOpenAI[[]string](ctx, g.client, g.model, prompt)
}

func callOpenAI[T any](ctx context.Context, client chatCompleter, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return result, nil
}
