package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
)

func (e *Engine) dedup(_ context.Context, t *Turn) (Outcome, error) {
	if t.MessageID == "" {
		return Continue, nil
	}
	if t.MessageID == t.Session.LastMessageID {
		e.deps.Log.Info("Engine", "Duplicate message dropped", map[string]interface{}{
			"user_id":    t.UserID,
			"message_id": t.MessageID,
		})
		return Drop, nil
	}
	t.Session.LastMessageID = t.MessageID
	return Continue, nil
}

func (e *Engine) turnLimit(ctx context.Context, t *Turn) (Outcome, error) {
	if e.deps.Turns == nil || t.Settings.MaxTurns <= 0 {
		return Continue, nil
	}
	n, err := e.deps.Turns.CountSince(ctx, t.Channel, t.UserID, t.Session.StartedAt)
	if err != nil {
		return Continue, fmt.Errorf("count turns: %w", err)
	}
	if n > t.Settings.MaxTurns*2 {
		return HaltText(e.render(t, t.Settings.OOSTemplate)), nil
	}
	return Continue, nil
}

func (e *Engine) greetingOnly(_ context.Context, t *Turn) (Outcome, error) {
	if intent.IsGreetingOnly(t.Text) {
		return HaltText(e.render(t, t.Settings.GreetingTemplate)), nil
	}
	return Continue, nil
}

func (e *Engine) greetingPrefix(_ context.Context, t *Turn) (Outcome, error) {
	if _, rest, ok := intent.SplitGreeting(t.Text); ok && rest != "" {
		t.Greeting = e.render(t, t.Settings.GreetingPrefix)
		t.Text = rest
	}
	return Continue, nil
}

func (e *Engine) hoursReply(t *Turn) string {
	return FormatBusinessHours(t.Settings.BusinessHours, t.Settings.HoursMessage)
}

func (e *Engine) hours(_ context.Context, t *Turn) (Outcome, error) {
	if intent.IsHoursRequest(t.Text) {
		return HaltText(e.hoursReply(t)), nil
	}
	return Continue, nil
}

func (e *Engine) guardrail(ctx context.Context, t *Turn) (Outcome, error) {
	g := intent.NewGuardrail(t.Settings.Roles)
	role := t.Settings.AgentRole
	if !g.Restricted(role) {
		return Continue, nil
	}
	c := e.classify(ctx, t)
	if g.Allows(role, c.Action) {
		return Continue, nil
	}
	e.deps.Log.Info("Engine", "Action outside agent role", map[string]interface{}{
		"user_id": t.UserID,
		"role":    role,
		"action":  string(c.Action),
	})
	return HaltText(e.render(t, t.Settings.DeflectionTemplate)), nil
}

// catalogAllowed reports whether the active role may look products up.
// Catalog stages check it whether or not the turn was classified.
func (e *Engine) catalogAllowed(t *Turn) bool {
	g := intent.NewGuardrail(t.Settings.Roles)
	return g.Allows(t.Settings.AgentRole, intent.ActionSearchProduct) || g.Allows(t.Settings.AgentRole, intent.ActionBuy)
}

func (e *Engine) groundedQA(ctx context.Context, t *Turn) (Outcome, error) {
	if e.deps.Retriever == nil || t.Text == "" {
		return Continue, nil
	}
	snippets, err := e.deps.Retriever.Search(ctx, t.Text, t.Settings.TopK)
	if err != nil {
		return Continue, err
	}
	answer, err := e.deps.Retriever.Answer(ctx, t.Text, snippets, rag.WithBotName(t.Settings.BotName))
	if err != nil {
		return Continue, err
	}
	if rag.IsSentinel(answer) {
		return Continue, nil
	}
	return HaltText(answer), nil
}

func (e *Engine) agent(ctx context.Context, t *Turn) (Outcome, error) {
	reply, generic, err := e.runAgent(ctx, t)
	if err != nil {
		return Continue, err
	}
	if generic || strings.TrimSpace(reply.Text) == "" || t.Settings.GenericReplyPattern.MatchString(reply.Text) {
		return Continue, nil
	}
	return Halt(reply), nil
}

func (e *Engine) followUp(ctx context.Context, t *Turn) (Outcome, error) {
	if t.Session.LastProduct == "" || !intent.IsFollowUp(t.Text) || !e.catalogAllowed(t) {
		return Continue, nil
	}
	items, err := e.resolve(ctx, t, t.Session.LastProduct, "")
	if err != nil {
		return Continue, err
	}
	if len(items) == 0 {
		return Continue, nil
	}
	return HaltText(productLine(items[0])), nil
}

var builtinKeywords = []IntentPhrases{
	{Name: "greeting", Phrases: []string{"hola", "buenas", "buen dia", "hello"}},
	{Name: "hours", Phrases: []string{"horario", "abren", "cierran"}},
	{Name: "search_product", Phrases: []string{"comprar", "agrega", "carrito", "llevo", "precio", "tenes", "tienes", "buscar", "busco"}},
}

// matchIntent looks the words up in the intents table, then in the built-in
// keywords. It returns the intent and the words left once the phrase is cut.
func matchIntent(table []IntentPhrases, text string) (string, []string) {
	words := nlp.Words(text)
	for _, list := range [][]IntentPhrases{table, builtinKeywords} {
		for _, it := range list {
			for _, phrase := range it.Phrases {
				pw := nlp.Words(phrase)
				if i := indexPhrase(words, pw); i >= 0 {
					rest := append(append([]string{}, words[:i]...), words[i+len(pw):]...)
					return strings.ToLower(it.Name), rest
				}
			}
		}
	}
	return "", words
}

func indexPhrase(words, phrase []string) int {
	if len(phrase) == 0 {
		return -1
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j := range phrase {
			if words[i+j] != phrase[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func (e *Engine) keywordPlanB(ctx context.Context, t *Turn) (Outcome, error) {
	name, rest := matchIntent(t.Settings.Intents, t.Text)
	switch intent.Action(name) {
	case intent.ActionSearchProduct, intent.ActionBuy:
		query := strings.Join(rest, " ")
		if strings.TrimSpace(query) == "" {
			return Continue, nil
		}
		if !e.catalogAllowed(t) {
			return HaltText(e.render(t, t.Settings.DeflectionTemplate)), nil
		}
		items, err := e.resolve(ctx, t, query, "")
		if err != nil {
			return Continue, err
		}
		if len(items) > 0 {
			return HaltText(formatList(items)), nil
		}
	case intent.ActionHours:
		return HaltText(e.hoursReply(t)), nil
	}
	return Continue, nil
}

func (e *Engine) rawCatalog(ctx context.Context, t *Turn) (Outcome, error) {
	if t.Text == "" || !e.catalogAllowed(t) {
		return Continue, nil
	}
	items, err := e.resolve(ctx, t, t.Text, "")
	if err != nil {
		return Continue, err
	}
	if len(items) == 0 {
		return Continue, nil
	}
	return HaltText(formatList(items)), nil
}

func (e *Engine) fallback(_ context.Context, t *Turn) (Outcome, error) {
	if t.Greeting == "" {
		return HaltText(e.render(t, t.Settings.GreetingTemplate)), nil
	}
	return HaltText(t.Settings.GenericPrompt), nil
}
