package models

import "time"

// PaymentStatus is the closed set of payment states. Only completed
// payments count toward revenue totals.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Valid reports whether the status is one of the known states.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment represents a fee transaction recorded against a student.
type Payment struct {
	ID            string        `db:"id" json:"id"`
	StudentID     string        `db:"student_id" json:"student_id"`
	Amount        float64       `db:"amount" json:"amount"`
	PaymentDate   time.Time     `db:"payment_date" json:"payment_date"`
	PaymentMethod string        `db:"payment_method" json:"payment_method"`
	PaymentType   string        `db:"payment_type" json:"payment_type"`
	Status        PaymentStatus `db:"status" json:"status"`
	Description   string        `db:"description" json:"description"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentDetail joins the paying student's name onto the payment row.
type PaymentDetail struct {
	Payment
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// PaymentFilter captures filtering criteria for listing payments.
type PaymentFilter struct {
	StudentID string
	Status    PaymentStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
