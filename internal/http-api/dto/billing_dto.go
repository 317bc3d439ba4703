package dto

// MarkPaidRequest: payload for settling an invoice manually
type MarkPaidRequest struct {
	PaymentReference string `json:"payment_reference,omitempty"`
}

// BillingResponse: invoice summary returned by billing endpoints
type BillingResponse struct {
	BillingID     int64   `json:"billing_id"`
	AppointmentID int64   `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

// CreateOrderRequest: payload for opening a PayPal order on an invoice
type CreateOrderRequest struct {
	BillingID int64 `json:"billing_id" binding:"required"`
}

// CreateOrderResponse: response payload carrying the buyer approval link
type CreateOrderResponse struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

// CaptureOrderRequest: payload for capturing an approved PayPal order.
// BillingID is an optional fallback when PayPal drops the custom_id echo.
type CaptureOrderRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	BillingID *int64 `json:"billing_id,omitempty"`
}

// CaptureOrderResponse: response payload after a capture
type CaptureOrderResponse struct {
	OrderID   string           `json:"order_id"`
	CaptureID string           `json:"capture_id"`
	Status    string           `json:"status"`
	Billing   *BillingResponse `json:"billing,omitempty"`
}
