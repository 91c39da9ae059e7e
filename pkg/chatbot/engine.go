// Package chatbot composes the single reply to an inbound customer message
// by running an ordered pipeline of stages over the session, the catalog and
// the document store.
package chatbot

import (
	"context"
	"strings"
	"time"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/llm"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

// Stage names, in pipeline order.
const (
	StageDedup          = "dedup"
	StageTurnLimit      = "turn_limit"
	StageGreetingOnly   = "greeting_only"
	StageGreetingPrefix = "greeting_prefix"
	StageHours          = "hours"
	StageGuardrail      = "guardrail"
	StageGroundedQA     = "grounded_qa"
	StageAgent          = "agent"
	StageFollowUp       = "follow_up"
	StageKeywordPlanB   = "keyword_plan_b"
	StageRawCatalog     = "raw_catalog"
	StageDefault        = "default"
)

type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]rag.Snippet, error)
	Answer(ctx context.Context, query string, snippets []rag.Snippet, opts ...rag.AnswerOption) (string, error)
}

type ActionClassifier interface {
	Classify(ctx context.Context, text string, hints intent.Hints) intent.Classification
}

// TurnCounter counts logged messages of a conversation since a point in time.
type TurnCounter interface {
	CountSince(ctx context.Context, channel, userID string, since time.Time) (int, error)
}

// Deps are the collaborators of the engine. Only Sessions is required.
type Deps struct {
	Sessions   store.SessionStore
	Settings   SettingsProvider
	Catalog    catalog.Source
	Keywords   llm.LLMProvider
	Retriever  Retriever
	Classifier ActionClassifier
	Agenda     Agenda
	Turns      TurnCounter
	Log        logger.ILogger
	Now        func() time.Time
}

type Engine struct {
	deps     Deps
	pipeline *Pipeline
}

func NewEngine(deps Deps) *Engine {
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.StaticSource{}
	}
	e := &Engine{deps: deps}
	e.pipeline = NewPipeline(deps.Log,
		NewStage(StageDedup, e.dedup),
		NewStage(StageTurnLimit, e.turnLimit),
		NewStage(StageGreetingOnly, e.greetingOnly),
		NewStage(StageGreetingPrefix, e.greetingPrefix),
		NewStage(StageHours, e.hours),
		NewStage(StageGuardrail, e.guardrail),
		NewStage(StageGroundedQA, e.groundedQA),
		NewStage(StageAgent, e.agent),
		NewStage(StageFollowUp, e.followUp),
		NewStage(StageKeywordPlanB, e.keywordPlanB),
		NewStage(StageRawCatalog, e.rawCatalog),
		NewStage(StageDefault, e.fallback),
	)
	return e
}

func (e *Engine) Pipeline() *Pipeline {
	return e.pipeline
}

// Handle produces at most one reply for in. Session and settings failures
// degrade to defaults; the session is saved whenever a reply is produced.
func (e *Engine) Handle(ctx context.Context, in Inbound) Result {
	settings := e.loadSettings(ctx)

	sess, err := e.deps.Sessions.Get(ctx, in.UserID)
	if err != nil || sess == nil {
		e.deps.Log.Warn("Engine", "Session store unavailable, using a transient session", map[string]interface{}{
			"user_id": in.UserID,
			"error":   errString(err),
		})
		sess = store.NewSession(in.UserID)
	}

	t := &Turn{Inbound: in, Session: sess, Settings: settings, Text: strings.TrimSpace(in.Text)}
	res := e.pipeline.Run(ctx, t)
	if res.Dropped {
		return res
	}

	if err := e.deps.Sessions.Save(ctx, sess); err != nil {
		e.deps.Log.Warn("Engine", "Session save failed", map[string]interface{}{
			"user_id": in.UserID,
			"error":   err.Error(),
		})
	}
	return res
}

func (e *Engine) loadSettings(ctx context.Context) Settings {
	if e.deps.Settings == nil {
		return DefaultSettings()
	}
	s, err := e.deps.Settings.Load(ctx)
	if err != nil {
		e.deps.Log.Warn("Engine", "Settings unavailable, using defaults", map[string]interface{}{"error": err.Error()})
		return DefaultSettings()
	}
	return s.withDefaults()
}

// withDefaults fills every zero field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&s.BotName, d.BotName)
	fill(&s.Greeting, d.Greeting)
	fill(&s.GreetingTemplate, d.GreetingTemplate)
	fill(&s.GreetingPrefix, d.GreetingPrefix)
	fill(&s.OOSTemplate, d.OOSTemplate)
	fill(&s.DeflectionTemplate, d.DeflectionTemplate)
	fill(&s.HoursMessage, d.HoursMessage)
	fill(&s.GenericPrompt, d.GenericPrompt)
	fill(&s.ProductParserPrompt, d.ProductParserPrompt)
	fill(&s.Timezone, d.Timezone)
	if s.ResponseMode != ModeRich {
		s.ResponseMode = ModeConcise
	}
	if s.GenericReplyPattern == nil {
		s.GenericReplyPattern = d.GenericReplyPattern
	}
	if s.Roles == nil {
		s.Roles = d.Roles
	}
	if s.MaxTurns < 0 {
		s.MaxTurns = 0
	}
	if s.HistoryWindow <= 0 {
		s.HistoryWindow = d.HistoryWindow
	}
	if s.TopK <= 0 {
		s.TopK = d.TopK
	}
	return s
}

func (e *Engine) render(t *Turn, tpl string) string {
	return RenderTemplate(tpl, t.Settings.templateVars())
}

func (e *Engine) today(t *Turn) string {
	loc, err := time.LoadLocation(t.Settings.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return e.deps.Now().In(loc).Format("2006-01-02")
}

// classify runs the extraction call at most once per turn.
func (e *Engine) classify(ctx context.Context, t *Turn) intent.Classification {
	if t.classification != nil {
		return *t.classification
	}
	c := intent.Classification{Extraction: intent.Extraction{Action: intent.ActionQA}, Degraded: true}
	if e.deps.Classifier != nil {
		c = e.deps.Classifier.Classify(ctx, t.Text, intent.Hints{
			Categories: t.Settings.Categories,
			Today:      e.today(t),
		})
	}
	t.classification = &c
	return c
}

func (e *Engine) resolver(t *Turn) *catalog.Resolver {
	opts := []catalog.ResolverOption{
		catalog.WithPinning(t.Settings.Pinning),
		catalog.WithLogger(e.deps.Log),
	}
	if e.deps.Keywords != nil {
		opts = append(opts, catalog.WithKeywordExtractor(
			catalog.NewLLMKeywordExtractor(e.deps.Keywords, t.Settings.ProductParserPrompt)))
	}
	return catalog.NewResolver(e.deps.Catalog, nlp.NewNormalizer(t.Settings.Synonyms), opts...)
}

// resolve looks up the catalog, prices the candidates and remembers the
// first one as the last referenced product.
func (e *Engine) resolve(ctx context.Context, t *Turn, query, category string) ([]catalog.PricedItem, error) {
	items, err := e.resolver(t).Resolve(ctx, query, category)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	t.Session.LastProduct = items[0].Name
	return catalog.ApplyRules(items, t.Settings.Rules), nil
}

func errString(err error) string {
	if err == nil {
		return "nil session"
	}
	return err.Error()
}
