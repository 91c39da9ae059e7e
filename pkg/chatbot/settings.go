package chatbot

import (
	"context"
	"regexp"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

type ResponseMode string

const (
	ModeConcise ResponseMode = "concise"
	ModeRich    ResponseMode = "rich"
)

// IntentPhrases is one row of the static intents table.
type IntentPhrases struct {
	Name    string   `json:"name" yaml:"name"`
	Phrases []string `json:"phrases" yaml:"phrases"`
}

// BusinessHour is the opening window of one weekday, "HH:MM" local time.
type BusinessHour struct {
	Weekday int    `json:"weekday" yaml:"weekday"` // 0 = Sunday
	Open    string `json:"open" yaml:"open"`
	Close   string `json:"close" yaml:"close"`
}

// Settings is the per-turn snapshot of the bot configuration.
type Settings struct {
	BotName             string
	Greeting            string
	GreetingTemplate    string
	GreetingPrefix      string
	OOSTemplate         string
	DeflectionTemplate  string
	HoursMessage        string
	GenericPrompt       string
	ProductParserPrompt string
	ResponseMode        ResponseMode
	AgentRole           string
	EcommerceURL        string
	GenericReplyPattern *regexp.Regexp
	Timezone            string

	Synonyms      []nlp.Synonym
	Intents       []IntentPhrases
	Categories    []string
	Roles         map[string][]string
	BusinessHours []BusinessHour
	Rules         []catalog.Rule
	Pinning       catalog.PinningTable

	MaxTurns      int
	HistoryWindow int
	TopK          int
}

const (
	DefaultGreetingTemplate = "{{greeting}} Soy {{bot_name}}. ¿En qué puedo ayudarte hoy?"
	DefaultGreetingPrefix   = "{{greeting}} Soy {{bot_name}}."
	DefaultOOSTemplate      = "Perdón, no entendí. ¿Podés reformular o elegir una opción?"
	DefaultDeflection       = "Perdón, por este canal no puedo ayudarte con eso. ¿Te ayudo con otra consulta?"
	DefaultHoursMessage     = "Nuestro horario: lun-vie 09:00–19:00, sáb 09:00–13:00 (GMT-3)."
	DefaultGenericPrompt    = "Contame qué producto o categoría estás buscando y te ayudo."
	AgentFallback           = "¿Sobre qué producto o reserva te gustaría que te ayude?"
	NoResultsReply          = "No encontré nada en esa categoría/producto. ¿Querés que busque otra cosa o un corte similar?"
)

// DefaultGenericReplyPattern flags agent replies that carry no resolution.
var DefaultGenericReplyPattern = regexp.MustCompile(`(?i)(sobre qu[eé] producto o reserva|no encontr[eé] nada en esa categor[ií]a)`)

func DefaultSettings() Settings {
	return Settings{
		BotName:             "Bot",
		Greeting:            "¡Hola!",
		GreetingTemplate:    DefaultGreetingTemplate,
		GreetingPrefix:      DefaultGreetingPrefix,
		OOSTemplate:         DefaultOOSTemplate,
		DeflectionTemplate:  DefaultDeflection,
		HoursMessage:        DefaultHoursMessage,
		GenericPrompt:       DefaultGenericPrompt,
		ProductParserPrompt: catalog.DefaultKeywordPrompt,
		ResponseMode:        ModeConcise,
		AgentRole:           "",
		GenericReplyPattern: DefaultGenericReplyPattern,
		Timezone:            "America/Argentina/Buenos_Aires",
		Roles:               map[string][]string{},
		MaxTurns:            6,
		HistoryWindow:       12,
		TopK:                6,
	}
}

// templateVars are the placeholders every template may use.
func (s Settings) templateVars() map[string]string {
	return map[string]string{
		"bot_name":      s.BotName,
		"greeting":      s.Greeting,
		"ecommerce_url": s.EcommerceURL,
	}
}

// SettingsProvider loads the configuration for one turn.
type SettingsProvider interface {
	Load(ctx context.Context) (Settings, error)
}

// StaticSettings always returns the same snapshot.
type StaticSettings Settings

func (s StaticSettings) Load(context.Context) (Settings, error) {
	return Settings(s), nil
}
