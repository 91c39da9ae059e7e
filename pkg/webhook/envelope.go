// Package webhook turns messaging gateway payloads into normalized inbound
// envelopes. Each event is tried against an ordered list of strategies.
package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
)

// ErrInvalidPayload means the body was not JSON at all.
var ErrInvalidPayload = errors.New("webhook: invalid payload")

// Envelope is one customer message, whatever the gateway shape.
type Envelope struct {
	Channel   string `json:"channel"`
	From      string `json:"from"`
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	FromMe    bool   `json:"from_me"`
	Strategy  string `json:"strategy"`
}

type event = map[string]interface{}

// Strategy recognizes one payload shape. ok is false when the shape does
// not apply to the event.
type Strategy interface {
	Name() string
	Extract(ev event) (envs []Envelope, ok bool)
}

// DefaultStrategies is the order in which shapes are tried.
func DefaultStrategies() []Strategy {
	return []Strategy{evolutionUpsert{}, baileysMessages{}, cloudAPI{}, flat{}}
}

type Extractor struct {
	strategies []Strategy
	channel    string
	log        logger.ILogger
}

type Option func(*Extractor)

func WithStrategies(s ...Strategy) Option {
	return func(x *Extractor) { x.strategies = s }
}

func WithChannel(channel string) Option {
	return func(x *Extractor) { x.channel = channel }
}

func WithLogger(l logger.ILogger) Option {
	return func(x *Extractor) { x.log = l }
}

func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{
		strategies: DefaultStrategies(),
		channel:    "whatsapp",
		log:        logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract decodes a single event or an array of events and returns the
// messages worth answering. Own messages and events without a sender or
// text are logged and dropped.
func (x *Extractor) Extract(body []byte) ([]Envelope, error) {
	events, err := decodeEvents(body)
	if err != nil {
		return nil, err
	}

	var out []Envelope
	for i, ev := range events {
		envs, strategy := x.extractEvent(ev)
		if strategy == "" {
			x.log.Warn("Webhook", "Unrecognized event shape dropped", map[string]interface{}{
				"index": i,
				"keys":  keys(ev),
			})
			continue
		}
		for _, env := range envs {
			if reason := rejectReason(env); reason != "" {
				x.log.Info("Webhook", "Event dropped", map[string]interface{}{
					"strategy":   strategy,
					"reason":     reason,
					"message_id": env.MessageID,
				})
				continue
			}
			env.Strategy = strategy
			if env.Channel == "" {
				env.Channel = x.channel
			}
			out = append(out, env)
		}
	}
	return out, nil
}

func (x *Extractor) extractEvent(ev event) ([]Envelope, string) {
	for _, s := range x.strategies {
		if envs, ok := s.Extract(ev); ok {
			return envs, s.Name()
		}
	}
	return nil, ""
}

func rejectReason(env Envelope) string {
	switch {
	case env.FromMe:
		return "from_me"
	case env.From == "":
		return "no_sender"
	case strings.TrimSpace(env.Text) == "":
		return "no_text"
	}
	return ""
}

func decodeEvents(body []byte) ([]event, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		return []event{v}, nil
	case []interface{}:
		out := make([]event, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected object or array", ErrInvalidPayload)
}

func keys(ev event) []string {
	out := make([]string, 0, len(ev))
	for k := range ev {
		out = append(out, k)
	}
	return out
}
