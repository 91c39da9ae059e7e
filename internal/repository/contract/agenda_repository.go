package contract

import (
	"context"

	"github.com/molinerisit/wa-bot-sheets/internal/entity"
	"github.com/molinerisit/wa-bot-sheets/internal/repository/specification"

	"github.com/google/uuid"
)

type AgendaSlotRepository interface {
	CrudRepository[entity.AgendaSlot]
	FindSlot(ctx context.Context, date, time string) (*entity.AgendaSlot, error)
	// Book adds people to the slot only while booked + people <= capacity.
	// It reports whether the seats were taken.
	Book(ctx context.Context, id uuid.UUID, people int) (bool, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reservation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
