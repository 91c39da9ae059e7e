package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgendaSlot is the capacity offered at one date and time.
type AgendaSlot struct {
	Id       uuid.UUID
	Date     string // YYYY-MM-DD
	Time     string // HH:MM
	Capacity int
	Booked   int
}

func (s AgendaSlot) Remaining() int {
	if r := s.Capacity - s.Booked; r > 0 {
		return r
	}
	return 0
}

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	Id        uuid.UUID
	UserId    string
	Name      string
	Phone     string
	Date      string
	Time      string
	People    int
	Notes     string
	Status    string
	CreatedAt time.Time
}
