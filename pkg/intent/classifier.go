package intent

import (
	"context"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
)

const DefaultParserPrompt = "Sos un parser. Devolvé exclusivamente JSON con las keys: action, product_query, quantity, category, date, time, people, name, phone, notes. " +
	"action en {smalltalk,search_product,buy,hours,reservation,unknown,qa}. " +
	"date en formato YYYY-MM-DD y time en HH:MM. Omití las keys que no apliquen."

// Hints add deployment context to the parser prompt.
type Hints struct {
	Categories []string
	Today      string // YYYY-MM-DD, lets the model resolve "mañana"
}

type Classification struct {
	Extraction
	// Degraded is set when the model failed or broke the schema.
	Degraded bool
}

type Classifier struct {
	provider llm.LLMProvider
	prompt   string
	log      logger.ILogger
}

type ClassifierOption func(*Classifier)

func WithPrompt(prompt string) ClassifierOption {
	return func(c *Classifier) {
		if strings.TrimSpace(prompt) != "" {
			c.prompt = prompt
		}
	}
}

func WithClassifierLogger(l logger.ILogger) ClassifierOption {
	return func(c *Classifier) { c.log = l }
}

// NewClassifier accepts a nil provider; every call then degrades to qa.
func NewClassifier(provider llm.LLMProvider, opts ...ClassifierOption) *Classifier {
	c := &Classifier{provider: provider, prompt: DefaultParserPrompt, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Classifier) buildSystem(h Hints) string {
	var b strings.Builder
	b.WriteString(c.prompt)
	if len(h.Categories) > 0 {
		b.WriteString(" category en {" + strings.Join(h.Categories, ",") + "} o vacío.")
	}
	if h.Today != "" {
		b.WriteString(" Hoy es " + h.Today + ".")
	}
	return b.String()
}

// Classify never fails: model errors and schema violations yield qa.
func (c *Classifier) Classify(ctx context.Context, text string, hints Hints) Classification {
	degraded := Classification{Extraction: Extraction{Action: ActionQA}, Degraded: true}
	if c.provider == nil {
		return degraded
	}

	raw, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: c.buildSystem(hints)},
		{Role: "user", Content: `Texto: """` + text + `"""`},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		c.log.Warn("Classifier", "Extraction call failed", map[string]interface{}{"error": err.Error()})
		return degraded
	}

	ex, err := ParseExtraction(raw)
	if err != nil {
		c.log.Warn("Classifier", "Extraction rejected", map[string]interface{}{"error": err.Error(), "raw": raw})
		return degraded
	}
	return Classification{Extraction: ex}
}
