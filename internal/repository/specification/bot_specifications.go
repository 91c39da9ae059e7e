package specification

import "gorm.io/gorm"

// ActiveOnly keeps rows flagged active (products, pricing rules).
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// ByPosition orders configuration rows as the admin declared them.
type ByPosition struct{}

func (s ByPosition) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("name ASC")
}

// OnDate filters agenda slots and reservations by day.
type OnDate struct {
	Date string
}

func (s OnDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ?", s.Date)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
