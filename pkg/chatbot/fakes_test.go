package chatbot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/rag"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

var shopItems = []catalog.Item{
	{SKU: "MEAT-001", Name: "Milanesa de nalga", Price: 5200, QtyAvailable: 50, Categories: []string{"Carnes"}, ImageURL: "https://img/milanesa.jpg"},
	{SKU: "MEAT-002", Name: "Asado de tira", Price: 6800, QtyAvailable: 30, Categories: []string{"Carnes"}},
	{SKU: "MEAT-003", Name: "Matambre", Price: 5900, QtyAvailable: 15, Categories: []string{"Carnes"}},
	{SKU: "FROZ-001", Name: "Hamburguesas", Price: 4200, QtyAvailable: 25, Categories: []string{"Congelados"}},
}

var promoCarnes = catalog.Rule{
	Name:      "promo_carnes",
	Condition: catalog.RuleCondition{Category: "Carnes"},
	Action:    catalog.RuleAction{DiscountPct: 10},
}

type mapSessions struct {
	mu      sync.Mutex
	data    map[string]store.Session
	saves   int
	failGet bool
}

func newMapSessions() *mapSessions {
	return &mapSessions{data: map[string]store.Session{}}
}

func (m *mapSessions) Get(_ context.Context, userID string) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, store.ErrUnavailable
	}
	s, ok := m.data[userID]
	if !ok {
		return store.NewSession(userID), nil
	}
	return &s, nil
}

func (m *mapSessions) Save(_ context.Context, s *store.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.data[s.UserID] = *s
	return nil
}

func (m *mapSessions) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}

type countingSource struct {
	items []catalog.Item
	calls int
}

func (c *countingSource) Name() string { return "test" }

func (c *countingSource) Items(context.Context) ([]catalog.Item, error) {
	c.calls++
	return c.items, nil
}

type fakeRetriever struct {
	answer    string
	searchErr error
	searches  int
	answers   int
}

func (f *fakeRetriever) Search(context.Context, string, int) ([]rag.Snippet, error) {
	f.searches++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []rag.Snippet{{Text: "fragmento", Score: 0.9}}, nil
}

func (f *fakeRetriever) Answer(context.Context, string, []rag.Snippet, ...rag.AnswerOption) (string, error) {
	f.answers++
	return f.answer, nil
}

type fakeClassifier struct {
	result intent.Classification
	calls  int
	texts  []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string, _ intent.Hints) intent.Classification {
	f.calls++
	f.texts = append(f.texts, text)
	return f.result
}

func classified(ex intent.Extraction) *fakeClassifier {
	return &fakeClassifier{result: intent.Classification{Extraction: ex}}
}

type fakeAgenda struct {
	available bool
	lastReq   ReservationRequest
	created   int
}

func (f *fakeAgenda) CheckAvailability(context.Context, string, string, int) (Availability, error) {
	if !f.available {
		return Availability{Available: false, Reason: "no_slot_defined"}, nil
	}
	return Availability{Available: true, Remaining: 10}, nil
}

func (f *fakeAgenda) CreateReservation(_ context.Context, req ReservationRequest) (*store.ReservationRef, error) {
	f.created++
	f.lastReq = req
	return &store.ReservationRef{ID: "r-1", Date: req.Date, Time: req.Time, People: req.People, Status: "pending"}, nil
}

type fixedCounter struct {
	n   int
	err error
}

func (f fixedCounter) CountSince(context.Context, string, string, time.Time) (int, error) {
	return f.n, f.err
}

var errBoom = errors.New("boom")

func intPtr(v int) *int { return &v }
