package dto

import "github.com/shopspring/decimal"

// ── requests ──

// StudentRequest creates or updates a student profile.
type StudentRequest struct {
	StudentNumber  string          `json:"student_number"  binding:"required,min=2,max=20"`
	FirstName      string          `json:"first_name"      binding:"required,max=100"`
	LastName       string          `json:"last_name"       binding:"required,max=100"`
	Email          string          `json:"email"           binding:"required,email"`
	PhoneNumber    string          `json:"phone_number"    binding:"omitempty,max=20"`
	Major          string          `json:"major"           binding:"required,max=100"`
	Year           int             `json:"year"            binding:"required,min=1,max=6"`
	GPA            decimal.Decimal `json:"gpa"             binding:"-"`
	Status         string          `json:"status"          binding:"omitempty,oneof=ACTIVE INACTIVE GRADUATED SUSPENDED WITHDRAWN"`
	EnrollmentDate string          `json:"enrollment_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentProfileRequest is the self-service profile update.
type UpdateStudentProfileRequest struct {
	PhoneNumber string `json:"phone_number" binding:"omitempty,max=20"`
}

// ── responses ──

// StudentResponse is the student profile view.
type StudentResponse struct {
	ID             string          `json:"id"`
	StudentNumber  string          `json:"student_number"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	PhoneNumber    string          `json:"phone_number,omitempty"`
	Major          string          `json:"major"`
	Year           int             `json:"year"`
	GPA            decimal.Decimal `json:"gpa"`
	Status         string          `json:"status"`
	EnrollmentDate string          `json:"enrollment_date,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// ImportStudentResponse summarizes a bulk Excel import.
type ImportStudentResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportStudentError `json:"errors,omitempty"`
}

// ImportStudentError reports a single failed row.
type ImportStudentError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
