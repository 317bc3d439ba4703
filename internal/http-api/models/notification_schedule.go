package models

import (
	"encoding/json"
	"time"
)

// NotificationSchedule is a future-dated, not-yet-delivered reminder. Once
// delivered by the scheduler, sent is true and sent_at is set; the row is
// never re-delivered.
type NotificationSchedule struct {
	ID            int64      `gorm:"column:schedule_id;primaryKey;autoIncrement" json:"schedule_id"`
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	AppointmentID *int64     `gorm:"index" json:"appointment_id,omitempty"`
	Type          string     `gorm:"default:'reminder';not null" json:"type"`
	Payload       string     `gorm:"type:text" json:"-"` // serialized SchedulePayload
	SendAt        time.Time  `gorm:"not null;index" json:"send_at"`
	Sent          bool       `gorm:"default:false;not null;index" json:"sent"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (NotificationSchedule) TableName() string {
	return "notification_schedules"
}

// SchedulePayload is the envelope stored in the payload column.
type SchedulePayload struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}

// EncodeSchedulePayload serializes the payload, falling back to the bare
// message on serialization failure.
func EncodeSchedulePayload(message string, metadata map[string]any) string {
	raw, err := json.Marshal(SchedulePayload{Message: message, Metadata: metadata})
	if err != nil {
		return message
	}
	return string(raw)
}

// DecodeSchedulePayload parses a stored payload. Malformed payloads degrade
// to the raw text with no metadata.
func DecodeSchedulePayload(raw string) SchedulePayload {
	if raw == "" {
		return SchedulePayload{}
	}
	var payload SchedulePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return SchedulePayload{Message: raw, Metadata: nil}
	}
	return payload
}

// DecodedPayload decodes the schedule's stored payload.
func (s *NotificationSchedule) DecodedPayload() SchedulePayload {
	return DecodeSchedulePayload(s.Payload)
}
