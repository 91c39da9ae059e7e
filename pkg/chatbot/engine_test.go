package chatbot

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

func msg(id, text string) Inbound {
	return Inbound{Channel: "whatsapp", UserID: "5493510000000", MessageID: id, Text: text}
}

func TestScenarioGreetingOnly(t *testing.T) {
	src := &countingSource{items: shopItems}
	retriever := &fakeRetriever{answer: "algo"}
	classifier := classified(intent.Extraction{Action: intent.ActionSearchProduct})
	e := NewEngine(Deps{
		Sessions:   newMapSessions(),
		Settings:   StaticSettings(Settings{BotName: "Cibergaucho Bot"}),
		Catalog:    src,
		Retriever:  retriever,
		Classifier: classifier,
	})

	res := e.Handle(context.Background(), msg("m1", "hola"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, "¡Hola! Soy Cibergaucho Bot. ¿En qué puedo ayudarte hoy?", res.Reply.Text)
	assert.Equal(t, StageGreetingOnly, res.Stage)
	assert.Zero(t, src.calls)
	assert.Zero(t, retriever.searches)
	assert.Zero(t, classifier.calls)
}

func TestScenarioPinnedVariantFirst(t *testing.T) {
	items := []catalog.Item{
		{SKU: "M1", Name: "Milanesa especial", Price: 7000, QtyAvailable: 0},
		{SKU: "M2", Name: "Milanesa común", Price: 5000, QtyAvailable: 5},
	}
	sessions := newMapSessions()
	e := NewEngine(Deps{
		Sessions: sessions,
		Settings: StaticSettings(Settings{
			Pinning: catalog.PinningTable{{Family: "milanesa", Pinned: "Milanesa especial"}},
		}),
		Catalog:    catalog.StaticSource{List: items},
		Retriever:  &fakeRetriever{answer: rag.Sentinel},
		Classifier: classified(intent.Extraction{Action: intent.ActionSearchProduct, ProductQuery: "milanesas"}),
	})

	res := e.Handle(context.Background(), msg("m1", "tenés milanesas?"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, StageAgent, res.Stage)
	assert.Equal(t, "Milanesa especial está a $7000 | sin stock ahora.", res.Reply.Text)
	assert.Equal(t, "Milanesa especial", sessions.data["5493510000000"].LastProduct)
}

func TestScenarioHours(t *testing.T) {
	retriever := &fakeRetriever{answer: "otra cosa"}
	e := NewEngine(Deps{
		Sessions:  newMapSessions(),
		Catalog:   &countingSource{items: shopItems},
		Retriever: retriever,
	})

	res := e.Handle(context.Background(), msg("m1", "qué horario tienen"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, DefaultHoursMessage, res.Reply.Text)
	assert.Zero(t, retriever.searches)

	e = NewEngine(Deps{
		Sessions: newMapSessions(),
		Settings: StaticSettings(Settings{BusinessHours: []BusinessHour{
			{Weekday: 1, Open: "09:00", Close: "19:00"},
			{Weekday: 2, Open: "09:00", Close: "19:00"},
			{Weekday: 6, Open: "09:00", Close: "13:00"},
		}}),
	})
	res = e.Handle(context.Background(), msg("m2", "¿a qué hora abren?"))
	assert.Equal(t, "Nuestro horario: lun-mar 09:00–19:00, sáb 09:00–13:00.", res.Reply.Text)
}

func TestDedupSameMessageIDRepliesOnce(t *testing.T) {
	sessions := newMapSessions()
	e := NewEngine(Deps{Sessions: sessions})

	first := e.Handle(context.Background(), msg("wamid.1", "hola"))
	second := e.Handle(context.Background(), msg("wamid.1", "hola"))

	require.NotNil(t, first.Reply)
	assert.True(t, second.Dropped)
	assert.Nil(t, second.Reply)
	assert.Equal(t, StageDedup, second.Stage)
	assert.Equal(t, 1, sessions.saves)

	third := e.Handle(context.Background(), msg("wamid.2", "hola"))
	assert.NotNil(t, third.Reply)
}

func TestGreetingPrefixEmittedOnce(t *testing.T) {
	e := NewEngine(Deps{
		Sessions:   newMapSessions(),
		Catalog:    catalog.StaticSource{List: shopItems},
		Classifier: classified(intent.Extraction{Action: intent.ActionSearchProduct, ProductQuery: "asado"}),
	})

	res := e.Handle(context.Background(), msg("m1", "Hola, tenés asado?"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, "¡Hola! Soy Bot.\nAsado de tira está a $6800 | Stock: 30.", res.Reply.Text)
	assert.Equal(t, 1, strings.Count(res.Reply.Text, "¡Hola!"))
}

func TestGroundedAnswerHalts(t *testing.T) {
	classifier := classified(intent.Extraction{Action: intent.ActionSearchProduct})
	e := NewEngine(Deps{
		Sessions:   newMapSessions(),
		Retriever:  &fakeRetriever{answer: "Hacemos envíos en CABA."},
		Classifier: classifier,
	})

	res := e.Handle(context.Background(), msg("m1", "¿hacen envíos?"))
	assert.Equal(t, "Hacemos envíos en CABA.", res.Reply.Text)
	assert.Equal(t, StageGroundedQA, res.Stage)
	assert.Zero(t, classifier.calls)
}

func TestGroundedRefusalFallsThrough(t *testing.T) {
	retriever := &fakeRetriever{answer: "No tengo esa información cargada aún."}
	e := NewEngine(Deps{
		Sessions:  newMapSessions(),
		Catalog:   catalog.StaticSource{List: shopItems},
		Retriever: retriever,
	})

	res := e.Handle(context.Background(), msg("m1", "matambre"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, 1, retriever.answers)
	assert.NotContains(t, res.Reply.Text, "No tengo esa información")
	assert.Equal(t, StageRawCatalog, res.Stage)
	assert.Equal(t, "Encontré 1 resultado(s):\n• Matambre (MEAT-003) — $5900", res.Reply.Text)
}

func TestStageErrorContinues(t *testing.T) {
	e := NewEngine(Deps{
		Sessions:  newMapSessions(),
		Catalog:   catalog.StaticSource{List: shopItems},
		Retriever: &fakeRetriever{searchErr: errBoom},
	})
	res := e.Handle(context.Background(), msg("m1", "matambre"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, StageRawCatalog, res.Stage)
}

func TestGenericAgentReplyContinuesToKeywordPlanB(t *testing.T) {
	e := NewEngine(Deps{
		Sessions: newMapSessions(),
		Settings: StaticSettings(Settings{Rules: []catalog.Rule{promoCarnes}}),
		Catalog:  catalog.StaticSource{List: shopItems},
		// No classifier: the agent answers with its generic fallback.
	})

	res := e.Handle(context.Background(), msg("m1", "busco asado"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, StageKeywordPlanB, res.Stage)
	assert.Equal(t, "Encontré 1 resultado(s):\n• Asado de tira (MEAT-002) — $6120 (-10%)", res.Reply.Text)
}

func TestKeywordPlanBUsesIntentsTable(t *testing.T) {
	e := NewEngine(Deps{
		Sessions: newMapSessions(),
		Settings: StaticSettings(Settings{Intents: []IntentPhrases{
			{Name: "hours", Phrases: []string{"atención al público"}},
		}}),
	})
	res := e.Handle(context.Background(), msg("m1", "cuándo es la atención al público"))
	assert.Equal(t, StageKeywordPlanB, res.Stage)
	assert.Equal(t, DefaultHoursMessage, res.Reply.Text)
}

func TestFollowUpResolvesLastProduct(t *testing.T) {
	sessions := newMapSessions()
	e := NewEngine(Deps{
		Sessions: sessions,
		Settings: StaticSettings(Settings{Rules: []catalog.Rule{promoCarnes}}),
		Catalog:  catalog.StaticSource{List: shopItems},
	})

	first := e.Handle(context.Background(), msg("m1", "matambre"))
	require.NotNil(t, first.Reply)
	assert.Equal(t, "Matambre", sessions.data["5493510000000"].LastProduct)

	res := e.Handle(context.Background(), msg("m2", "y cuánto sale?"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, StageFollowUp, res.Stage)
	assert.Equal(t, "Matambre está a $5310 | Stock: 15.", res.Reply.Text)
}

func TestDefaultReplies(t *testing.T) {
	e := NewEngine(Deps{Sessions: newMapSessions(), Catalog: catalog.StaticSource{List: shopItems}})

	res := e.Handle(context.Background(), msg("m1", "xyzzy"))
	assert.Equal(t, StageDefault, res.Stage)
	assert.Equal(t, "¡Hola! Soy Bot. ¿En qué puedo ayudarte hoy?", res.Reply.Text)

	res = e.Handle(context.Background(), msg("m2", "hola, xyzzy"))
	assert.Equal(t, StageDefault, res.Stage)
	assert.Equal(t, "¡Hola! Soy Bot.\n"+DefaultGenericPrompt, res.Reply.Text)
}

func TestTurnLimit(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{name: "over the limit", count: 13, want: DefaultOOSTemplate},
		{name: "at the limit", count: 12, want: "¡Hola! Soy Bot. ¿En qué puedo ayudarte hoy?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(Deps{Sessions: newMapSessions(), Turns: fixedCounter{n: tt.count}})
			res := e.Handle(context.Background(), msg("m1", "hola"))
			assert.Equal(t, tt.want, res.Reply.Text)
		})
	}

	e := NewEngine(Deps{Sessions: newMapSessions(), Turns: fixedCounter{err: errBoom}})
	res := e.Handle(context.Background(), msg("m1", "hola"))
	assert.Equal(t, StageGreetingOnly, res.Stage)
}

func TestGuardrailDeflects(t *testing.T) {
	settings := StaticSettings(Settings{AgentRole: "reservations"})

	e := NewEngine(Deps{
		Sessions:   newMapSessions(),
		Settings:   settings,
		Catalog:    catalog.StaticSource{List: shopItems},
		Classifier: classified(intent.Extraction{Action: intent.ActionBuy, ProductQuery: "asado"}),
	})
	res := e.Handle(context.Background(), msg("m1", "quiero comprar asado"))
	assert.Equal(t, StageGuardrail, res.Stage)
	assert.Equal(t, DefaultDeflection, res.Reply.Text)

	classifier := classified(intent.Extraction{Action: intent.ActionReservation})
	e = NewEngine(Deps{Sessions: newMapSessions(), Settings: settings, Classifier: classifier, Agenda: &fakeAgenda{}})
	res = e.Handle(context.Background(), msg("m2", "quiero reservar"))
	assert.Equal(t, StageAgent, res.Stage)
	assert.Equal(t, 1, classifier.calls, "classification reused by the agent")
}

func TestCatalogStagesRespectRole(t *testing.T) {
	const user = "5493510000000"
	tests := []struct {
		name       string
		text       string
		classifier *fakeClassifier
		last       string
		wantStage  string
		wantText   string
	}{
		{name: "keyword search deflected", text: "busco asado", wantStage: StageKeywordPlanB, wantText: DefaultDeflection},
		{name: "qa classification skips raw catalog", text: "matambre",
			classifier: classified(intent.Extraction{Action: intent.ActionQA}), wantStage: StageDefault},
		{name: "follow-up skipped", text: "y cuánto sale?", last: "Matambre", wantStage: StageDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newMapSessions()
			if tt.last != "" {
				s := store.NewSession(user)
				s.LastProduct = tt.last
				sessions.data[user] = *s
			}
			src := &countingSource{items: shopItems}
			deps := Deps{
				Sessions: sessions,
				Settings: StaticSettings(Settings{AgentRole: "reservations"}),
				Catalog:  src,
			}
			if tt.classifier != nil {
				deps.Classifier = tt.classifier
			}
			res := NewEngine(deps).Handle(context.Background(), msg("m1", tt.text))
			require.NotNil(t, res.Reply)
			assert.Equal(t, tt.wantStage, res.Stage)
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, res.Reply.Text)
			}
			assert.Zero(t, src.calls, "catalog never read")
		})
	}
}

func TestFollowUpNamingAnotherProduct(t *testing.T) {
	sessions := newMapSessions()
	e := NewEngine(Deps{Sessions: sessions, Catalog: catalog.StaticSource{List: shopItems}})

	first := e.Handle(context.Background(), msg("m1", "matambre"))
	require.NotNil(t, first.Reply)
	require.Equal(t, "Matambre", sessions.data["5493510000000"].LastProduct)

	res := e.Handle(context.Background(), msg("m2", "precio del asado"))
	require.NotNil(t, res.Reply)
	assert.NotEqual(t, StageFollowUp, res.Stage)
	assert.Contains(t, res.Reply.Text, "Asado de tira")
	assert.NotContains(t, res.Reply.Text, "Matambre")
}

func TestConfiguredGenericPatternKeepsAgentFallbackGeneric(t *testing.T) {
	e := NewEngine(Deps{
		Sessions: newMapSessions(),
		Settings: StaticSettings(Settings{GenericReplyPattern: regexp.MustCompile(`(?i)no s[eé]`)}),
		Catalog:  catalog.StaticSource{List: shopItems},
	})

	res := e.Handle(context.Background(), msg("m1", "busco asado"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, StageKeywordPlanB, res.Stage)
	assert.Equal(t, "Encontré 1 resultado(s):\n• Asado de tira (MEAT-002) — $6800", res.Reply.Text)
}

func TestSessionUnavailableDegrades(t *testing.T) {
	sessions := newMapSessions()
	sessions.failGet = true
	e := NewEngine(Deps{Sessions: sessions})

	res := e.Handle(context.Background(), msg("m1", "hola"))
	require.NotNil(t, res.Reply)
	assert.Equal(t, 1, sessions.saves)
}

func TestHistoryRecordsOriginalText(t *testing.T) {
	sessions := newMapSessions()
	e := NewEngine(Deps{Sessions: sessions, Settings: StaticSettings(Settings{HistoryWindow: 2})})

	e.Handle(context.Background(), msg("m1", "hola"))
	e.Handle(context.Background(), msg("m2", "hola, xyzzy"))

	h := sessions.data["5493510000000"].History
	require.Len(t, h, 2)
	assert.Equal(t, "hola, xyzzy", h[0].Content)
	assert.Equal(t, "assistant", h[1].Role)
}

func TestAgentReservation(t *testing.T) {
	ex := intent.Extraction{Action: intent.ActionReservation, Date: "2025-10-03", Time: "20:30", People: intPtr(4)}

	t.Run("available", func(t *testing.T) {
		agenda := &fakeAgenda{available: true}
		sessions := newMapSessions()
		e := NewEngine(Deps{Sessions: sessions, Classifier: classified(ex), Agenda: agenda})

		res := e.Handle(context.Background(), msg("m1", "reserva para 4 el viernes 20:30"))
		assert.Equal(t, "Listo, quedó tu reserva para 4 personas el 2025-10-03 a las 20:30. Te confirmamos a la brevedad.", res.Reply.Text)
		assert.Equal(t, 1, agenda.created)
		assert.Equal(t, "5493510000000", agenda.lastReq.Phone)
		require.NotNil(t, sessions.data["5493510000000"].Reservation)
		assert.Equal(t, "pending", sessions.data["5493510000000"].Reservation.Status)
	})

	t.Run("no slot", func(t *testing.T) {
		agenda := &fakeAgenda{available: false}
		e := NewEngine(Deps{Sessions: newMapSessions(), Classifier: classified(ex), Agenda: agenda})
		res := e.Handle(context.Background(), msg("m1", "reserva"))
		assert.Equal(t, "No tengo lugar para 4 personas el 2025-10-03 a las 20:30. ¿Probamos otro horario?", res.Reply.Text)
		assert.Zero(t, agenda.created)
	})

	t.Run("missing fields", func(t *testing.T) {
		e := NewEngine(Deps{
			Sessions:   newMapSessions(),
			Classifier: classified(intent.Extraction{Action: intent.ActionReservation, Date: "2025-10-03"}),
			Agenda:     &fakeAgenda{available: true},
		})
		res := e.Handle(context.Background(), msg("m1", "quiero reservar"))
		assert.Contains(t, res.Reply.Text, "fecha, hora y cantidad de personas")
	})
}

func TestAgentBuyAddsToCart(t *testing.T) {
	sessions := newMapSessions()
	e := NewEngine(Deps{
		Sessions:   sessions,
		Settings:   StaticSettings(Settings{EcommerceURL: "https://example.com"}),
		Catalog:    catalog.StaticSource{List: shopItems},
		Classifier: classified(intent.Extraction{Action: intent.ActionBuy, ProductQuery: "asado", Quantity: intPtr(2)}),
	})

	res := e.Handle(context.Background(), msg("m1", "me llevo 2 asados"))
	assert.Equal(t, "Listo, anoté 2 x Asado de tira ($6800 c/u). Para finalizar la compra entrá a https://example.com", res.Reply.Text)

	cart := sessions.data["5493510000000"].Cart
	require.Len(t, cart, 1)
	assert.Equal(t, "MEAT-002", cart[0].SKU)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAgentCategoryReplies(t *testing.T) {
	ex := intent.Extraction{Action: intent.ActionSearchProduct, Category: "Carnes"}

	t.Run("concise", func(t *testing.T) {
		e := NewEngine(Deps{
			Sessions:   newMapSessions(),
			Settings:   StaticSettings(Settings{Categories: []string{"Carnes", "Congelados"}}),
			Catalog:    catalog.StaticSource{List: shopItems},
			Classifier: classified(ex),
		})
		res := e.Handle(context.Background(), msg("m1", "tienen carne?"))
		assert.Equal(t, "Sí, tenemos carnes. Por ejemplo, Milanesa de nalga a $5200. ¿Querés ver otra opción?", res.Reply.Text)
	})

	t.Run("rich", func(t *testing.T) {
		e := NewEngine(Deps{
			Sessions:   newMapSessions(),
			Settings:   StaticSettings(Settings{Categories: []string{"Carnes"}, ResponseMode: ModeRich}),
			Catalog:    catalog.StaticSource{List: shopItems},
			Classifier: classified(ex),
		})
		res := e.Handle(context.Background(), msg("m1", "tienen carne?"))
		want := "Opciones en carnes:\n" +
			"• Milanesa de nalga: $5200 (stock 50)\n" +
			"• Matambre: $5900 (stock 15)\n" +
			"• Asado de tira: $6800 (stock 30)\n\n" +
			"¿Te paso más opciones o querés reservar?"
		assert.Equal(t, want, res.Reply.Text)
		require.NotNil(t, res.Reply.Media)
		assert.Equal(t, "https://img/milanesa.jpg", res.Reply.Media.ImageURL)
		assert.Equal(t, "Milanesa de nalga — $5200 | Stock: 50", res.Reply.Media.Caption)
	})
}

func TestPipelineStageOrder(t *testing.T) {
	e := NewEngine(Deps{Sessions: newMapSessions()})
	assert.Equal(t, []string{
		StageDedup, StageTurnLimit, StageGreetingOnly, StageGreetingPrefix, StageHours, StageGuardrail,
		StageGroundedQA, StageAgent, StageFollowUp, StageKeywordPlanB, StageRawCatalog, StageDefault,
	}, e.Pipeline().Stages())
}
