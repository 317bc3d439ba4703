package models

import (
	"encoding/json"
	"time"
)

type Service struct {
	ID              int64     `gorm:"column:service_id;primaryKey;autoIncrement" json:"service_id"`
	ServiceName     string    `gorm:"uniqueIndex;not null" json:"service_name"`
	Description     string    `gorm:"type:text" json:"description"`
	Price           float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	DurationMinutes int       `gorm:"default:30" json:"duration_minutes"`
	AvailableSlots  string    `gorm:"type:text" json:"-"` // JSON array of "HH:MM" strings
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

// Slots decodes the stored available_slots JSON. Malformed or empty values
// decode to no slots rather than an error.
func (s *Service) Slots() []string {
	if s.AvailableSlots == "" {
		return nil
	}
	var slots []string
	if err := json.Unmarshal([]byte(s.AvailableSlots), &slots); err != nil {
		return nil
	}
	return slots
}
