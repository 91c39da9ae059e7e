package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
)

// DefaultKeywordPrompt asks the model for a single butcher-shop keyword.
const DefaultKeywordPrompt = "Sos un parser. Dado un texto del usuario, devolveme SOLO una palabra clave de producto o categoría de carnicería (ej.: asado, vacío, nalga, milanesa, pollo, cerdo, parrilla, empanizado). No inventes."

// LLMKeywordExtractor asks a language model for one keyword.
type LLMKeywordExtractor struct {
	provider llm.LLMProvider
	prompt   string
}

func NewLLMKeywordExtractor(provider llm.LLMProvider, prompt string) *LLMKeywordExtractor {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultKeywordPrompt
	}
	return &LLMKeywordExtractor{provider: provider, prompt: prompt}
}

func (e *LLMKeywordExtractor) ExtractKeyword(ctx context.Context, text string) (string, error) {
	out, err := e.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: e.prompt},
		{Role: "user", Content: text},
	}, llm.WithTemperature(0.2), llm.WithMaxTokens(12))
	if err != nil {
		return "", fmt.Errorf("catalog: keyword extraction: %w", err)
	}

	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(out), "\n", 2)[0])
	return strings.ToLower(strings.Trim(line, "\"'`.,;:!¡?¿ ")), nil
}
