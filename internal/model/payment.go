package model

// PaymentOrder is the ephemeral order handed to the checkout widget. It is
// never persisted here; reconciliation relies on the receipt embedding the
// appointment id.
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// CreateOrderRequest takes the amount in whole currency units; the service
// converts to minor units before calling the processor.
type CreateOrderRequest struct {
	Amount   int               `json:"amount" binding:"required,gt=0"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	AppointmentID     string `json:"appointment_id" binding:"required,uuid"`
}

type VerifyPaymentResponse struct {
	Success     bool         `json:"success"`
	Appointment *Appointment `json:"appointment,omitempty"`
}
