package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"
	"github.com/molinerisit/wa-bot-sheets/pkg/chatbot"
	"github.com/molinerisit/wa-bot-sheets/pkg/events"
)

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	require.NoError(t, f.NewUnitOfWork(ctx).AgendaSlotRepository().Create(ctx, &entity.AgendaSlot{
		Date: "2026-10-15", Time: "21:00", Capacity: 10, Booked: 6,
	}))
	svc := NewReservationService(f, nil, nopLog)

	tests := []struct {
		name   string
		date   string
		time   string
		people int
		want   chatbot.Availability
	}{
		{name: "fits", date: "2026-10-15", time: "21:00", people: 4, want: chatbot.Availability{Available: true, Remaining: 4}},
		{name: "too many", date: "2026-10-15", time: "21:00", people: 5, want: chatbot.Availability{Available: false, Reason: ReasonFull, Remaining: 4}},
		{name: "no slot", date: "2026-10-15", time: "22:00", people: 1, want: chatbot.Availability{Available: false, Reason: ReasonNoSlot}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CheckAvailability(ctx, tt.date, tt.time, tt.people)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	slot := &entity.AgendaSlot{Date: "2026-10-15", Time: "21:00", Capacity: 10, Booked: 6}
	require.NoError(t, f.NewUnitOfWork(ctx).AgendaSlotRepository().Create(ctx, slot))

	pub := &recordingPublisher{err: errors.New("nats down")}
	svc := NewReservationService(f, pub, nopLog)

	ref, err := svc.CreateReservation(ctx, chatbot.ReservationRequest{
		UserID: "549351", Name: " Ana ", Phone: "351", Date: "2026-10-15", Time: "21:00", People: 4,
	})
	require.NoError(t, err, "publish failures do not fail the booking")
	assert.Equal(t, entity.ReservationPending, ref.Status)
	assert.Equal(t, 4, ref.People)

	stored, err := f.NewUnitOfWork(ctx).AgendaSlotRepository().FindSlot(ctx, "2026-10-15", "21:00")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Booked)

	list, err := svc.List(ctx, "2026-10-15", entity.ReservationPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, ref.ID, list[0].Id.String())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.RESERVATION_CREATED, pub.events[0].EventType())
	assert.Equal(t, ref.ID, pub.events[0].Payload()["id"])

	_, err = svc.CreateReservation(ctx, chatbot.ReservationRequest{Date: "2026-10-15", Time: "21:00", People: 1})
	assert.ErrorIs(t, err, ErrSlotFull)

	_, err = svc.CreateReservation(ctx, chatbot.ReservationRequest{Date: "2026-10-16", Time: "21:00", People: 1})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	count, err := f.NewUnitOfWork(ctx).ReservationRepository().FindAll(ctx, specification.OnDate{Date: "2026-10-15"})
	require.NoError(t, err)
	assert.Len(t, count, 1, "failed bookings leave no reservation behind")
}

func TestUpdateReservationStatus(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	require.NoError(t, f.NewUnitOfWork(ctx).AgendaSlotRepository().Create(ctx, &entity.AgendaSlot{Date: "2026-10-15", Time: "13:00", Capacity: 4}))
	svc := NewReservationService(f, nil, nopLog)

	ref, err := svc.CreateReservation(ctx, chatbot.ReservationRequest{Date: "2026-10-15", Time: "13:00", People: 2})
	require.NoError(t, err)
	id := uuid.MustParse(ref.ID)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, id, "maybe"), ErrInvalidStatus)
	require.NoError(t, svc.UpdateStatus(ctx, id, entity.ReservationConfirmed))

	confirmed, err := svc.List(ctx, "", entity.ReservationConfirmed)
	require.NoError(t, err)
	assert.Len(t, confirmed, 1)
}
