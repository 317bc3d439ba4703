package models

import (
	"encoding/json"
	"time"
)

// Notification classification tags.
const (
	TypeAppointmentReminder24h = "appointment_reminder_24h"
	TypeAppointmentReminder3h  = "appointment_reminder_3h"
	TypeAppointmentAccepted    = "appointment_accepted"
	TypeAppointmentCancelled   = "appointment_cancelled"
	TypeAppointmentUpdate      = "appointment_update"
	TypePaymentDue             = "payment_due"
	TypeBilling                = "billing"
	TypePetRecordAdded         = "pet_record_added"
	TypeInfo                   = "info"
)

// Notification read states.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

type Notification struct {
	ID        int64     `gorm:"column:notification_id;primaryKey;autoIncrement" json:"notification_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"-"` // serialized envelope, see NotificationPayload
	Status    string    `gorm:"default:'unread';not null" json:"status"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationPayload is the envelope stored in the message column.
type NotificationPayload struct {
	Message  string         `json:"message"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

// EncodeEnvelope serializes a notification payload for storage. If
// serialization fails the bare message text is stored instead.
func EncodeEnvelope(message, notifType string, metadata map[string]any) string {
	raw, err := json.Marshal(NotificationPayload{
		Message:  message,
		Type:     notifType,
		Metadata: metadata,
	})
	if err != nil {
		return message
	}
	return string(raw)
}

// DecodeEnvelope parses a stored envelope. Malformed payloads degrade to the
// raw text with type "info" rather than failing.
func DecodeEnvelope(raw string) NotificationPayload {
	var payload NotificationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.Message == "" && payload.Type == "" {
		return NotificationPayload{Message: raw, Type: TypeInfo, Metadata: nil}
	}
	if payload.Type == "" {
		payload.Type = TypeInfo
	}
	return payload
}

// Payload decodes the notification's stored envelope.
func (n *Notification) Payload() NotificationPayload {
	return DecodeEnvelope(n.Message)
}
