package models

import "time"

// BloodDonor is a community donor record. Deletion is a soft delete via
// the is_active flag.
type BloodDonor struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	BloodGroup string    `db:"blood_group" json:"blood_group"`
	Active     bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BloodDonorSearch captures the supported donor search parameters.
type BloodDonorSearch struct {
	Name       string
	Email      string
	BloodGroup string
}
