package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by backends that cannot reach their storage.
var ErrUnavailable = errors.New("store: session backend unavailable")

// Turn is one entry of the rolling conversation window.
type Turn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// CartItem is a product the customer said they would take.
type CartItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ReservationRef remembers the last reservation created in this session.
type ReservationRef struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	People int    `json:"people"`
	Status string `json:"status"`
}

// Session represents the live conversational state of one customer
type Session struct {
	UserID        string          `json:"user_id"`
	LastMessageID string          `json:"last_message_id"` // dedup key
	LastProduct   string          `json:"last_product,omitempty"`
	Cart          []CartItem      `json:"cart"`
	Reservation   *ReservationRef `json:"reservation,omitempty"`
	History       []Turn          `json:"history"`
	StartedAt     time.Time       `json:"started_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewSession returns the default state for a customer seen for the first time.
func NewSession(userID string) *Session {
	now := time.Now()
	return &Session{
		UserID:    userID,
		Cart:      []CartItem{},
		History:   []Turn{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// AppendExchange records one user/assistant pair and keeps the last window entries.
func (s *Session) AppendExchange(user, assistant string, window int) {
	s.History = append(s.History,
		Turn{Role: RoleUser, Content: user},
		Turn{Role: RoleAssistant, Content: assistant},
	)
	if window > 0 && len(s.History) > window {
		s.History = s.History[len(s.History)-window:]
	}
	s.UpdatedAt = time.Now()
}

// AddToCart increments the quantity of an existing line or appends a new one.
func (s *Session) AddToCart(item CartItem) {
	for i := range s.Cart {
		if s.Cart[i].SKU == item.SKU {
			s.Cart[i].Quantity += item.Quantity
			s.Cart[i].UnitPrice = item.UnitPrice
			return
		}
	}
	s.Cart = append(s.Cart, item)
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SessionStore persists sessions keyed by user id. Save refreshes the expiry.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context, userID string) error
}
