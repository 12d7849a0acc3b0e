package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/julioantloga/transcricao-backend/internal/openai"
)

// FallbackReview is returned when the provider answers with empty content.
const FallbackReview = "Não foi possível gerar o parecer."

// Completer is the single text-generation call the package depends on.
type Completer interface {
	ChatCompletion(ctx context.Context, req openai.ChatRequest) (string, error)
}

// Generator produces one evaluation report per call. It holds no state.
type Generator struct {
	completer Completer
	model     string
	logger    *slog.Logger
}

func NewGenerator(completer Completer, model string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{completer: completer, model: model, logger: logger}
}

// Generate builds the prompt for the input's mode and makes exactly one
// provider call. An empty response yields the fallback text, not an error.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	prompt := BuildPrompt(in)
	g.logger.Debug("review prompt assembled", "mode", in.Mode(), "competencies", len(in.Competencies), "chars", len(prompt))

	out, err := g.completer.ChatCompletion(ctx, openai.ChatRequest{
		Model: g.model,
		Messages: []openai.Message{
			{Role: "system", Content: "Você é um recrutador técnico especialista."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   3000,
	})
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackReview, nil
	}
	return out, nil
}
