package dto

// ── requests ──

// InstructorRequest creates or updates an instructor profile.
type InstructorRequest struct {
	EmployeeID     string `json:"employee_id"    binding:"required,min=2,max=20"`
	FirstName      string `json:"first_name"     binding:"required,max=100"`
	LastName       string `json:"last_name"      binding:"required,max=100"`
	Email          string `json:"email"          binding:"required,email"`
	PhoneNumber    string `json:"phone_number"   binding:"omitempty,max=20"`
	Department     string `json:"department"     binding:"required,max=100"`
	Specialization string `json:"specialization" binding:"omitempty,max=100"`
	HireDate       string `json:"hire_date"      binding:"omitempty,datetime=2006-01-02"`
}

// UpdateInstructorProfileRequest is the self-service profile update.
type UpdateInstructorProfileRequest struct {
	PhoneNumber    string `json:"phone_number"   binding:"omitempty,max=20"`
	Specialization string `json:"specialization" binding:"omitempty,max=100"`
}

// ── responses ──

// InstructorResponse is the instructor profile view.
type InstructorResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Department     string `json:"department"`
	Specialization string `json:"specialization,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
