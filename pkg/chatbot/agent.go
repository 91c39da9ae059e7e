package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/catalog"
	"github.com/molinerisit/wa-bot-sheets/pkg/intent"
	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
	"github.com/molinerisit/wa-bot-sheets/pkg/store"
)

// MaxToolResults caps what search_products hands to the formatters.
const MaxToolResults = 5

type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
}

type ReservationRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	People int    `json:"people"`
	Notes  string `json:"notes"`
}

// Agenda backs the check_availability and create_reservation tools.
type Agenda interface {
	CheckAvailability(ctx context.Context, date, time string, people int) (Availability, error)
	CreateReservation(ctx context.Context, req ReservationRequest) (*store.ReservationRef, error)
}

// runAgent picks a tool from the turn classification. generic is set when the
// agent resolved nothing, so the pipeline continues whatever the reply text.
func (e *Engine) runAgent(ctx context.Context, t *Turn) (reply Reply, generic bool, err error) {
	c := e.classify(ctx, t)
	if c.Degraded {
		return Reply{Text: AgentFallback}, true, nil
	}

	switch c.Action {
	case intent.ActionSearchProduct:
		return e.agentSearch(ctx, t, c)
	case intent.ActionBuy:
		return e.agentBuy(ctx, t, c)
	case intent.ActionReservation:
		return e.agentReserve(ctx, t, c)
	}
	return Reply{Text: AgentFallback}, true, nil
}

// knownCategory maps the extracted category onto the configured list.
func knownCategory(categories []string, extracted string) string {
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return ""
	}
	if len(categories) == 0 {
		return strings.ToLower(extracted)
	}
	want := nlp.Fold(extracted)
	for _, c := range categories {
		if nlp.Fold(c) == want {
			return strings.ToLower(c)
		}
	}
	return ""
}

// searchProducts is the search_products tool.
func (e *Engine) searchProducts(ctx context.Context, t *Turn, query, category string) ([]catalog.PricedItem, error) {
	items, err := e.resolve(ctx, t, query, category)
	if err != nil {
		return nil, fmt.Errorf("search_products: %w", err)
	}
	if len(items) > MaxToolResults {
		items = items[:MaxToolResults]
	}
	return items, nil
}

func (e *Engine) agentSearch(ctx context.Context, t *Turn, c intent.Classification) (Reply, bool, error) {
	category := knownCategory(t.Settings.Categories, c.Category)
	query := strings.TrimSpace(c.ProductQuery)
	if query == "" && category == "" {
		query = t.Text
	}

	items, err := e.searchProducts(ctx, t, query, category)
	if err != nil {
		return Reply{}, false, err
	}
	if len(items) == 0 {
		return Reply{Text: NoResultsReply}, true, nil
	}
	if t.Settings.ResponseMode == ModeRich {
		return formatRich(items, category), false, nil
	}
	return Reply{Text: formatConcise(items, category)}, false, nil
}

func (e *Engine) agentBuy(ctx context.Context, t *Turn, c intent.Classification) (Reply, bool, error) {
	query := strings.TrimSpace(c.ProductQuery)
	if query == "" {
		query = t.Text
	}
	items, err := e.searchProducts(ctx, t, query, knownCategory(t.Settings.Categories, c.Category))
	if err != nil {
		return Reply{}, false, err
	}
	if len(items) == 0 {
		return Reply{Text: NoResultsReply}, true, nil
	}

	var pick *catalog.PricedItem
	for i := range items {
		if items[i].InStock() {
			pick = &items[i]
			break
		}
	}
	if pick == nil {
		return Reply{Text: fmt.Sprintf("%s está sin stock ahora. ¿Querés que te sugiera algo similar?", items[0].DisplayName())}, false, nil
	}

	qty := c.QuantityOr(1)
	t.Session.AddToCart(store.CartItem{SKU: pick.SKU, Name: pick.DisplayName(), Quantity: qty, UnitPrice: pick.FinalPrice})
	t.Session.LastProduct = pick.Name

	text := fmt.Sprintf("Listo, anoté %d x %s ($%s c/u).", qty, pick.DisplayName(), formatPrice(pick.FinalPrice))
	if t.Settings.EcommerceURL != "" {
		text += " Para finalizar la compra entrá a " + t.Settings.EcommerceURL
	}
	return Reply{Text: text}, false, nil
}

func (e *Engine) agentReserve(ctx context.Context, t *Turn, c intent.Classification) (Reply, bool, error) {
	if e.deps.Agenda == nil {
		return Reply{Text: AgentFallback}, true, nil
	}
	people := c.PeopleOr(0)
	if c.Date == "" || c.Time == "" || people <= 0 {
		return Reply{Text: "Para reservar necesito fecha, hora y cantidad de personas. ¿Me los pasás?"}, false, nil
	}

	avail, err := e.deps.Agenda.CheckAvailability(ctx, c.Date, c.Time, people)
	if err != nil {
		return Reply{}, false, fmt.Errorf("check_availability: %w", err)
	}
	if !avail.Available {
		return Reply{Text: fmt.Sprintf("No tengo lugar para %d personas el %s a las %s. ¿Probamos otro horario?", people, c.Date, c.Time)}, false, nil
	}

	phone := c.Phone
	if phone == "" {
		phone = t.UserID
	}
	ref, err := e.deps.Agenda.CreateReservation(ctx, ReservationRequest{
		UserID: t.UserID,
		Name:   c.Name,
		Phone:  phone,
		Date:   c.Date,
		Time:   c.Time,
		People: people,
		Notes:  c.Notes,
	})
	if err != nil {
		return Reply{}, false, fmt.Errorf("create_reservation: %w", err)
	}
	t.Session.Reservation = ref
	return Reply{Text: fmt.Sprintf("Listo, quedó tu reserva para %d personas el %s a las %s. Te confirmamos a la brevedad.", people, c.Date, c.Time)}, false, nil
}
