package models

import (
	"encoding/json"
	"time"
)

type PetRecord struct {
	ID          int64     `gorm:"column:record_id;primaryKey;autoIncrement" json:"record_id"`
	PetID       int64     `gorm:"not null;index" json:"pet_id"`
	ServiceType string    `gorm:"not null" json:"service_type"`
	RecordData  string    `gorm:"type:text" json:"-"` // JSON key/value document
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Pet *Pet `gorm:"foreignKey:PetID" json:"pet,omitempty"`
}

func (PetRecord) TableName() string {
	return "pet_records"
}

// Data decodes the stored record document; malformed data decodes to nil.
func (r *PetRecord) Data() map[string]any {
	if r.RecordData == "" {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(r.RecordData), &data); err != nil {
		return nil
	}
	return data
}
