package entity

import (
	"time"

	"github.com/google/uuid"
)

// BotConfig is one key of the flat configuration map.
type BotConfig struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Intent struct {
	Id       uuid.UUID
	Name     string
	Phrases  []string
	Position int
}

type Synonym struct {
	Id        uuid.UUID
	Canonical string
	Variants  []string
}

type Category struct {
	Id       uuid.UUID
	Name     string
	Position int
}

// Role lists the capabilities an agent role may exercise.
type Role struct {
	Id           uuid.UUID
	Name         string
	Capabilities []string
}

type BusinessHour struct {
	Id      uuid.UUID
	Weekday int // 0 = Sunday
	Open    string
	Close   string
}
