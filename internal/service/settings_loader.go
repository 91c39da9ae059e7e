package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/internal/pkg/logger"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/unitofwork"
	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
	"github.com/molinerisit/wa-bot-sheets/pkg/externaldb"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

// bot_configs keys.
const (
	KeyBotName             = "bot_name"
	KeyGreeting            = "greeting"
	KeyGreetingTemplate    = "greeting_template"
	KeyGreetingPrefix      = "greeting_prefix"
	KeyOOSTemplate         = "oos_template"
	KeyDeflectionTemplate  = "deflection_template"
	KeyHoursMessage        = "hours_message"
	KeyGenericPrompt       = "generic_prompt"
	KeyResponseMode        = "response_mode"
	KeyAgentRole           = "agent_role"
	KeyEcommerceURL        = "ecommerce_url"
	KeyGenericReplyPattern = "generic_reply_pattern"
	KeyProductParserPrompt = "prompt_product_parser"
	KeyPinning             = "pinning"
	KeyTimezone            = "timezone"
	KeyMaxTurns            = "max_turns"
	KeyHistoryWindow       = "history_window"
	KeyTopK                = "rag_top_k"
	KeyExternalDBURL       = "external_db_url"
	KeyExternalAllowedSQL  = "external_allowed_sql"
)

// SettingsDefaults are the environment-level values used when bot_configs
// has no override.
type SettingsDefaults struct {
	MaxTurns      int
	HistoryWindow int
	TopK          int
}

// SettingsLoader builds the per-turn chatbot.Settings from bot_configs and
// the configuration tables.
type SettingsLoader struct {
	uowFactory unitofwork.RepositoryFactory
	defaults   SettingsDefaults
	log        logger.ILogger
}

var _ chatbot.SettingsProvider = &SettingsLoader{}

func NewSettingsLoader(uowFactory unitofwork.RepositoryFactory, defaults SettingsDefaults, log logger.ILogger) *SettingsLoader {
	return &SettingsLoader{uowFactory: uowFactory, defaults: defaults, log: log}
}

func (l *SettingsLoader) Load(ctx context.Context) (chatbot.Settings, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	kv, err := uow.BotConfigRepository().All(ctx)
	if err != nil {
		return chatbot.Settings{}, fmt.Errorf("load bot configs: %w", err)
	}

	s := chatbot.DefaultSettings()
	s.MaxTurns = l.defaults.MaxTurns
	if l.defaults.HistoryWindow > 0 {
		s.HistoryWindow = l.defaults.HistoryWindow
	}
	if l.defaults.TopK > 0 {
		s.TopK = l.defaults.TopK
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(kv[key]); v != "" {
			*dst = v
		}
	}
	str(KeyBotName, &s.BotName)
	str(KeyGreeting, &s.Greeting)
	str(KeyGreetingTemplate, &s.GreetingTemplate)
	str(KeyGreetingPrefix, &s.GreetingPrefix)
	str(KeyOOSTemplate, &s.OOSTemplate)
	str(KeyDeflectionTemplate, &s.DeflectionTemplate)
	str(KeyHoursMessage, &s.HoursMessage)
	str(KeyGenericPrompt, &s.GenericPrompt)
	str(KeyAgentRole, &s.AgentRole)
	str(KeyEcommerceURL, &s.EcommerceURL)
	str(KeyProductParserPrompt, &s.ProductParserPrompt)
	str(KeyTimezone, &s.Timezone)

	if strings.EqualFold(strings.TrimSpace(kv[KeyResponseMode]), string(chatbot.ModeRich)) {
		s.ResponseMode = chatbot.ModeRich
	}

	num := func(key string, dst *int) {
		v := strings.TrimSpace(kv[key])
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			l.log.Warn("Settings", "Ignoring non-numeric config", map[string]interface{}{"key": key, "value": v})
			return
		}
		*dst = n
	}
	num(KeyMaxTurns, &s.MaxTurns)
	num(KeyHistoryWindow, &s.HistoryWindow)
	num(KeyTopK, &s.TopK)

	if raw := strings.TrimSpace(kv[KeyGenericReplyPattern]); raw != "" {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			l.log.Warn("Settings", "Invalid generic_reply_pattern, using default", map[string]interface{}{"error": err.Error()})
		} else {
			s.GenericReplyPattern = re
		}
	}

	if raw := strings.TrimSpace(kv[KeyPinning]); raw != "" {
		var pins catalog.PinningTable
		if err := json.Unmarshal([]byte(raw), &pins); err != nil {
			l.log.Warn("Settings", "Invalid pinning table, ignoring", map[string]interface{}{"error": err.Error()})
		} else {
			s.Pinning = pins
		}
	}

	if err := l.loadTables(ctx, uow, &s); err != nil {
		return chatbot.Settings{}, err
	}
	return s, nil
}

func (l *SettingsLoader) loadTables(ctx context.Context, uow unitofwork.UnitOfWork, s *chatbot.Settings) error {
	intents, err := uow.IntentRepository().FindAll(ctx, specification.ByPosition{})
	if err != nil {
		return fmt.Errorf("load intents: %w", err)
	}
	for _, it := range intents {
		s.Intents = append(s.Intents, chatbot.IntentPhrases{Name: it.Name, Phrases: it.Phrases})
	}

	synonyms, err := uow.SynonymRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load synonyms: %w", err)
	}
	for _, syn := range synonyms {
		s.Synonyms = append(s.Synonyms, nlp.Synonym{Canonical: syn.Canonical, Variants: syn.Variants})
	}

	categories, err := uow.CategoryRepository().FindAll(ctx, specification.ByPosition{})
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, c := range categories {
		s.Categories = append(s.Categories, c.Name)
	}

	roles, err := uow.RoleRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}
	s.Roles = make(map[string][]string, len(roles))
	for _, r := range roles {
		s.Roles[r.Name] = r.Capabilities
	}

	hours, err := uow.BusinessHourRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load business hours: %w", err)
	}
	for _, h := range hours {
		s.BusinessHours = append(s.BusinessHours, chatbot.BusinessHour{Weekday: h.Weekday, Open: h.Open, Close: h.Close})
	}

	rules, err := uow.PricingRuleRepository().FindAll(ctx, specification.ActiveOnly{}, specification.ByPosition{})
	if err != nil {
		return fmt.Errorf("load pricing rules: %w", err)
	}
	for _, r := range rules {
		s.Rules = append(s.Rules, catalog.Rule{
			Name:      r.Name,
			Condition: catalog.RuleCondition{Category: r.Category},
			Action:    catalog.RuleAction{DiscountPct: r.DiscountPct},
		})
	}
	return nil
}

// ExternalDB reads the external catalog connection from bot_configs.
// external_allowed_sql is a JSON array; a bare string is taken as one query.
func (l *SettingsLoader) ExternalDB(ctx context.Context) (externaldb.Settings, error) {
	kv, err := l.uowFactory.NewUnitOfWork(ctx).BotConfigRepository().All(ctx)
	if err != nil {
		return externaldb.Settings{}, fmt.Errorf("load external db config: %w", err)
	}
	return externaldb.Settings{
		URL:        strings.TrimSpace(kv[KeyExternalDBURL]),
		AllowedSQL: ParseAllowedSQL(kv[KeyExternalAllowedSQL]),
	}, nil
}

func ParseAllowedSQL(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{raw}
	}
	out := list[:0]
	for _, q := range list {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
