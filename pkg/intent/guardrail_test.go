package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardrailBuiltins(t *testing.T) {
	g := NewGuardrail(nil)

	tests := []struct {
		role   string
		action Action
		want   bool
	}{
		{role: "sales", action: ActionSearchProduct, want: true},
		{role: "sales", action: ActionBuy, want: true},
		{role: "sales", action: ActionReservation, want: false},
		{role: "sales", action: ActionHours, want: true},
		{role: "reservations", action: ActionReservation, want: true},
		{role: "reservations", action: ActionBuy, want: false},
		{role: "reservations", action: ActionQA, want: true},
		{role: "", action: ActionReservation, want: true},
		{role: "full", action: ActionBuy, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, g.Allows(tt.role, tt.action))
		})
	}
}

func TestGuardrailTableRoles(t *testing.T) {
	g := NewGuardrail(map[string][]string{
		"secretary": {"book_appointment", "smalltalk"},
		"Sales":     {"search_product", "quote", "smalltalk"},
	})

	assert.True(t, g.Restricted("secretary"))
	assert.True(t, g.Allows("secretary", ActionReservation))
	assert.False(t, g.Allows("secretary", ActionSearchProduct))

	assert.True(t, g.Allows("sales", ActionSearchProduct))
	assert.False(t, g.Allows("sales", ActionBuy))
	assert.False(t, g.Restricted("owner"))
}
