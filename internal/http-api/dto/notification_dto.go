package dto

import "time"

// NotificationResponse: a notification with its envelope already decoded
type NotificationResponse struct {
	NotificationID int64          `json:"notification_id"`
	Message        string         `json:"message"`
	Type           string         `json:"type"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}
