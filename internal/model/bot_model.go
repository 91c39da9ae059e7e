package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// assignID gives rows a client-side uuid so the schema needs no extension default.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type BotConfig struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (BotConfig) TableName() string {
	return "bot_configs"
}

type Intent struct {
	Id       uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name     string                      `gorm:"size:100;not null;index"`
	Phrases  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Position int                         `gorm:"default:0"`
}

func (Intent) TableName() string {
	return "intents"
}

func (m *Intent) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type Synonym struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Canonical string                      `gorm:"size:100;not null;uniqueIndex"`
	Variants  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

func (Synonym) TableName() string {
	return "synonyms"
}

func (m *Synonym) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type Category struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"size:100;not null;uniqueIndex"`
	Position int       `gorm:"default:0"`
}

func (Category) TableName() string {
	return "categories"
}

func (m *Category) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type Role struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name         string                      `gorm:"size:100;not null;uniqueIndex"`
	Capabilities datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

func (Role) TableName() string {
	return "roles"
}

func (m *Role) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}

type BusinessHour struct {
	Id      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Weekday int       `gorm:"not null;index"`
	Open    string    `gorm:"size:5;not null"`
	Close   string    `gorm:"size:5;not null"`
}

func (BusinessHour) TableName() string {
	return "business_hours"
}

func (m *BusinessHour) BeforeCreate(*gorm.DB) error {
	assignID(&m.Id)
	return nil
}
