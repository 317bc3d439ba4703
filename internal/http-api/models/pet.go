package models

import "time"

type Pet struct {
	ID             int64     `gorm:"column:pet_id;primaryKey;autoIncrement" json:"pet_id"`
	UserID         string    `gorm:"type:uuid;not null;index" json:"user_id"`
	PetName        string    `gorm:"not null" json:"pet_name"`
	Age            int       `json:"age"`
	Breed          string    `json:"breed"`
	Gender         string    `json:"gender"`
	MedicalHistory string    `gorm:"type:text" json:"medical_history"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Pet) TableName() string {
	return "pets"
}
