package models

import "time"

// Billing status values. A paid invoice is never voided.
const (
	BillingPending = "pending"
	BillingPaid    = "paid"
	BillingOverdue = "overdue"
	BillingVoid    = "void"
)

type Billing struct {
	ID               int64      `gorm:"column:billing_id;primaryKey;autoIncrement" json:"billing_id"`
	AppointmentID    int64      `gorm:"not null;index" json:"appointment_id"`
	UserID           string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount           float64    `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Status           string     `gorm:"default:'pending';not null;index" json:"status"`
	Notes            *string    `json:"notes,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	PayPalOrderID    *string    `gorm:"column:paypal_order_id;index" json:"paypal_order_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Billing) TableName() string {
	return "billing"
}
