package chatbot

import (
	"context"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

// Inbound is one customer message after gateway extraction.
type Inbound struct {
	Channel   string `json:"channel"`
	UserID    string `json:"user_id"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
}

type Media struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
}

type Reply struct {
	Text  string `json:"text"`
	Media *Media `json:"media,omitempty"`
}

// Turn is the mutable state threaded through the stages of one message.
type Turn struct {
	Inbound
	Session  *store.Session
	Settings Settings

	// Text is the working text; greeting_prefix strips the greeting from it.
	Text string
	// Greeting is set when the reply must be prefixed with a greeting.
	Greeting string

	classification *intent.Classification
}

type outcomeKind int

const (
	kindContinue outcomeKind = iota
	kindReply
	kindDrop
)

// Outcome tells the pipeline whether to stop and what to answer.
type Outcome struct {
	kind  outcomeKind
	reply Reply
}

var (
	Continue = Outcome{kind: kindContinue}
	Drop     = Outcome{kind: kindDrop}
)

// Halt stops the pipeline with r.
func Halt(r Reply) Outcome {
	return Outcome{kind: kindReply, reply: r}
}

// HaltText is Halt for a plain text reply.
func HaltText(text string) Outcome {
	return Halt(Reply{Text: text})
}

type Stage interface {
	Name() string
	Run(ctx context.Context, t *Turn) (Outcome, error)
}

type stageFunc struct {
	name string
	fn   func(ctx context.Context, t *Turn) (Outcome, error)
}

func (s stageFunc) Name() string { return s.name }

func (s stageFunc) Run(ctx context.Context, t *Turn) (Outcome, error) {
	return s.fn(ctx, t)
}

// NewStage adapts a function to the Stage interface.
func NewStage(name string, fn func(ctx context.Context, t *Turn) (Outcome, error)) Stage {
	return stageFunc{name: name, fn: fn}
}

// Result describes how a turn ended.
type Result struct {
	Reply   *Reply
	Stage   string
	Dropped bool
}

// Pipeline runs stages in order until one halts or drops.
type Pipeline struct {
	stages []Stage
	log    logger.ILogger
}

func NewPipeline(log logger.ILogger, stages ...Stage) *Pipeline {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pipeline{stages: stages, log: log}
}

func (p *Pipeline) Stages() []string {
	out := make([]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.Name()
	}
	return out
}

// Run returns the single reply for the turn. A failing stage is logged and
// skipped. When every stage continues, the generic prompt is used.
func (p *Pipeline) Run(ctx context.Context, t *Turn) Result {
	for _, s := range p.stages {
		out, err := s.Run(ctx, t)
		if err != nil {
			p.log.Warn("Pipeline", "Stage failed, continuing", map[string]interface{}{
				"stage":   s.Name(),
				"user_id": t.UserID,
				"error":   err.Error(),
			})
			continue
		}
		switch out.kind {
		case kindDrop:
			return Result{Stage: s.Name(), Dropped: true}
		case kindReply:
			return p.finish(t, s.Name(), out.reply)
		}
	}
	return p.finish(t, "exhausted", Reply{Text: t.Settings.GenericPrompt})
}

func (p *Pipeline) finish(t *Turn, stage string, r Reply) Result {
	if t.Greeting != "" {
		r.Text = strings.TrimSpace(t.Greeting + "\n" + r.Text)
	}
	if t.Session != nil {
		t.Session.AppendExchange(t.Inbound.Text, r.Text, t.Settings.HistoryWindow)
	}
	return Result{Reply: &r, Stage: stage}
}
