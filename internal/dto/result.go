package dto

import "github.com/shopspring/decimal"

// ── requests ──

// ResultRequest creates or updates a grade record. ResultValue bounds are
// enforced in the service so out-of-range values produce the same error
// shape as the other state checks.
type ResultRequest struct {
	CourseID    string          `json:"course_id"    binding:"required,uuid"`
	StudentID   string          `json:"student_id"   binding:"required,uuid"`
	ResultType  string          `json:"result_type"  binding:"required"`
	Title       string          `json:"title"        binding:"required,max=200"`
	Description string          `json:"description"  binding:"omitempty"`
	ResultValue decimal.Decimal `json:"result_value" binding:"-"`
	IsReleased  bool            `json:"is_released"`
}

// ── responses ──

// ResultResponse is the grade record view.
type ResultResponse struct {
	ID                    string          `json:"id"`
	ResultValue           decimal.Decimal `json:"result_value"`
	ResultType            string          `json:"result_type"`
	ResultTypeDisplayName string          `json:"result_type_display_name"`
	LetterResult          string          `json:"letter_result"`
	Title                 string          `json:"title"`
	Description           string          `json:"description,omitempty"`
	IsReleased            bool            `json:"is_released"`
	IsActive              bool            `json:"is_active"`
	ReleasedAt            string          `json:"released_at,omitempty"`
	StudentID             string          `json:"student_id"`
	StudentName           string          `json:"student_name,omitempty"`
	CourseID              string          `json:"course_id"`
	CourseCode            string          `json:"course_code,omitempty"`
	CourseName            string          `json:"course_name,omitempty"`
	InstructorID          string          `json:"instructor_id"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

// BulkReleaseResponse reports the outcome of a bulk release/unrelease.
type BulkReleaseResponse struct {
	CourseID string `json:"course_id"`
	Affected int64  `json:"affected"`
}

// AverageResultResponse carries a decimal-safe average.
type AverageResultResponse struct {
	CourseID      string          `json:"course_id,omitempty"`
	StudentID     string          `json:"student_id,omitempty"`
	AverageResult decimal.Decimal `json:"average_result"`
	ResultCount   int             `json:"result_count"`
}
