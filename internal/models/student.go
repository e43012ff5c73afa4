package models

import "time"

// StudentStatus is the closed set of enrollment states.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusSuspended StudentStatus = "suspended"
)

// Valid reports whether the status is one of the known states.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusSuspended:
		return true
	}
	return false
}

// Student represents a transport service subscriber.
type Student struct {
	ID               string        `db:"id" json:"id"`
	FirstName        string        `db:"first_name" json:"first_name"`
	LastName         string        `db:"last_name" json:"last_name"`
	Email            string        `db:"email" json:"email"`
	Phone            string        `db:"phone" json:"phone"`
	Address          string        `db:"address" json:"address"`
	Grade            string        `db:"grade" json:"grade"`
	School           string        `db:"school" json:"school"`
	ParentName       string        `db:"parent_name" json:"parent_name"`
	ParentPhone      string        `db:"parent_phone" json:"parent_phone"`
	EmergencyContact string        `db:"emergency_contact" json:"emergency_contact"`
	EmergencyPhone   string        `db:"emergency_phone" json:"emergency_phone"`
	Status           StudentStatus `db:"status" json:"status"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Status   StudentStatus
	Search   string
	Page     int
	PageSize int
}

// StudentPaymentStatus groups a student's payments by status.
type StudentPaymentStatus struct {
	Status      PaymentStatus `db:"status" json:"status"`
	Count       int           `db:"count" json:"count"`
	TotalAmount float64       `db:"total_amount" json:"total_amount"`
}
