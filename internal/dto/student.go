package dto

// CreateStudentRequest is the payload for enrolling a rider.
type CreateStudentRequest struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Address          string `json:"address" validate:"required"`
	Grade            string `json:"grade"`
	School           string `json:"school"`
	ParentName       string `json:"parent_name" validate:"required"`
	ParentPhone      string `json:"parent_phone" validate:"required"`
	EmergencyContact string `json:"emergency_contact" validate:"required"`
	EmergencyPhone   string `json:"emergency_phone" validate:"required"`
}

// UpdateStudentRequest is the payload for rewriting a rider record.
type UpdateStudentRequest struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Address          string `json:"address" validate:"required"`
	Grade            string `json:"grade"`
	School           string `json:"school"`
	ParentName       string `json:"parent_name" validate:"required"`
	ParentPhone      string `json:"parent_phone" validate:"required"`
	EmergencyContact string `json:"emergency_contact" validate:"required"`
	EmergencyPhone   string `json:"emergency_phone" validate:"required"`
	Status           string `json:"status" validate:"required,oneof=active inactive suspended"`
}

// UpdateStudentStatusRequest flips only the lifecycle state.
type UpdateStudentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}
