package models

import "time"

// Appointment status values. Transitions are one-directional: a cancelled or
// completed appointment never returns to an earlier status.
const (
	AppointmentPending   = "Pending"
	AppointmentAccepted  = "Accepted"
	AppointmentCancelled = "Cancelled"
	AppointmentCompleted = "Completed"
)

type Appointment struct {
	ID                 int64     `gorm:"column:appointment_id;primaryKey;autoIncrement" json:"appointment_id"`
	UserID             string    `gorm:"type:uuid;not null;index" json:"user_id"`
	PetID              int64     `gorm:"not null" json:"pet_id"`
	DateTime           time.Time `gorm:"not null;index" json:"date_time"`
	Service            string    `gorm:"not null" json:"service"` // free text as entered by the user
	ServiceID          *int64    `json:"service_id,omitempty"`    // resolved catalog reference, if any
	Notes              string    `gorm:"type:text" json:"notes"`
	Status             string    `gorm:"default:'Pending';not null;index" json:"status"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	User            *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Pet             *Pet     `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	ResolvedService *Service `gorm:"foreignKey:ServiceID" json:"resolved_service,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransition reports whether the status change is allowed.
// Pending -> Accepted | Cancelled, Accepted -> Cancelled | Completed.
func CanTransition(from, to string) bool {
	switch from {
	case AppointmentPending:
		return to == AppointmentAccepted || to == AppointmentCancelled
	case AppointmentAccepted:
		return to == AppointmentCancelled || to == AppointmentCompleted
	default:
		return false
	}
}
