package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession("549351")
	assert.Equal(t, "549351", s.UserID)
	assert.Empty(t, s.LastMessageID)
	assert.NotNil(t, s.Cart)
	assert.NotNil(t, s.History)
	assert.False(t, s.StartedAt.IsZero())
}

func TestAppendExchangeKeepsWindow(t *testing.T) {
	s := NewSession("u")
	for i := 0; i < 10; i++ {
		s.AppendExchange("pregunta", "respuesta", 4)
	}
	require.Len(t, s.History, 4)
	assert.Equal(t, RoleUser, s.History[0].Role)
	assert.Equal(t, RoleAssistant, s.History[3].Role)

	unbounded := NewSession("u")
	unbounded.AppendExchange("a", "b", 0)
	unbounded.AppendExchange("c", "d", 0)
	assert.Len(t, unbounded.History, 4)
}

func TestAddToCartMergesBySKU(t *testing.T) {
	s := NewSession("u")
	s.AddToCart(CartItem{SKU: "MEAT-002", Name: "Asado de tira", Quantity: 1, UnitPrice: 6800})
	s.AddToCart(CartItem{SKU: "FROZ-001", Name: "Hamburguesas", Quantity: 2, UnitPrice: 4200})
	s.AddToCart(CartItem{SKU: "MEAT-002", Name: "Asado de tira", Quantity: 2, UnitPrice: 6120})

	require.Len(t, s.Cart, 2)
	assert.Equal(t, 3, s.Cart[0].Quantity)
	assert.Equal(t, 6120.0, s.Cart[0].UnitPrice)
}
