package dto

import "time"

// CreatePaymentRequest is the payload for recording a payment.
type CreatePaymentRequest struct {
	StudentID     string     `json:"student_id" validate:"required"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod string     `json:"payment_method" validate:"required,oneof=cash card transfer mobile"`
	PaymentType   string     `json:"payment_type" validate:"required,oneof=monthly quarterly annual single"`
	Description   string     `json:"description"`
}

// UpdatePaymentRequest is the payload for rewriting a payment.
type UpdatePaymentRequest struct {
	StudentID     string    `json:"student_id" validate:"required"`
	Amount        float64   `json:"amount" validate:"required,gt=0"`
	PaymentDate   time.Time `json:"payment_date" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=cash card transfer mobile"`
	PaymentType   string    `json:"payment_type" validate:"required,oneof=monthly quarterly annual single"`
	Status        string    `json:"status" validate:"required,oneof=pending completed failed refunded"`
	Description   string    `json:"description"`
}

// UpdatePaymentStatusRequest moves a payment through its lifecycle,
// covering manual verification of pending transfers.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

// ExportPaymentsRequest bounds a payment export.
type ExportPaymentsRequest struct {
	From   time.Time `json:"from" form:"from" validate:"required"`
	To     time.Time `json:"to" form:"to" validate:"required,gtfield=From"`
	Format string    `json:"format" form:"format" validate:"required,oneof=csv pdf"`
}
