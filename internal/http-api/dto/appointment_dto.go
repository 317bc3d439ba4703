package dto

import "time"

// CreateAppointmentRequest: payload for booking an appointment
type CreateAppointmentRequest struct {
	PetID    int64     `json:"pet_id" binding:"required"`
	DateTime time.Time `json:"date_time" binding:"required"`
	Service  string    `json:"service" binding:"required"`
	Notes    string    `json:"notes,omitempty"`
}

// CancelAppointmentRequest: payload for cancelling an appointment
type CancelAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AppointmentResponse: response payload after booking, including the outcome
// of reminder and invoice setup
type AppointmentResponse struct {
	AppointmentID int64            `json:"appointment_id"`
	Status        string           `json:"status"`
	Billing       *BillingResponse `json:"billing,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
}
