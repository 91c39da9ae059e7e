package implementation

import (
	"context"
	"testing"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgendaSlotBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewAgendaSlotRepository(newTestDB(t))

	slot := &entity.AgendaSlot{Date: "2025-10-03", Time: "20:30", Capacity: 10, Booked: 6}
	require.NoError(t, repo.Create(ctx, slot))

	ok, err := repo.Book(ctx, slot.Id, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Book(ctx, slot.Id, 1)
	require.NoError(t, err)
	assert.False(t, ok, "capacity is full")

	got, err := repo.FindSlot(ctx, "2025-10-03", "20:30")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Booked)
	assert.Zero(t, got.Remaining())

	none, err := repo.FindSlot(ctx, "2025-10-03", "21:00")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReservationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository(newTestDB(t))

	r := &entity.Reservation{UserId: "549351", Phone: "549351", Date: "2025-10-03", Time: "20:30", People: 4}
	require.NoError(t, repo.Create(ctx, r))
	assert.Equal(t, entity.ReservationPending, r.Status)

	require.NoError(t, repo.UpdateStatus(ctx, r.Id, entity.ReservationConfirmed))

	pending, err := repo.FindAll(ctx, specification.ByStatus{Status: entity.ReservationPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	onDay, err := repo.FindAll(ctx, specification.OnDate{Date: "2025-10-03"})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, entity.ReservationConfirmed, onDay[0].Status)
}
