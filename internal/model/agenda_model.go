package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgendaSlot struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date     string    `gorm:"size:10;not null;uniqueIndex:idx_agenda_slot"`
	Time     string    `gorm:"size:5;not null;uniqueIndex:idx_agenda_slot"`
	Capacity int       `gorm:"not null;default:0"`
	Booked   int       `gorm:"not null;default:0"`
}

func (AgendaSlot) TableName() string {
	return "agenda_slots"
}

func (m *AgendaSlot) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type Reservation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    string    `gorm:"size:64;not null;index"`
	Name      string    `gorm:"size:255"`
	Phone     string    `gorm:"size:64"`
	Date      string    `gorm:"size:10;not null;index"`
	Time      string    `gorm:"size:5;not null"`
	People    int       `gorm:"not null"`
	Notes     string    `gorm:"type:text"`
	Status    string    `gorm:"size:16;not null;default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (m *Reservation) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}
