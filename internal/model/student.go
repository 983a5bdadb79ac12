package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student enrollment statuses.
const (
	StudentStatusActive    = "ACTIVE"
	StudentStatusInactive  = "INACTIVE"
	StudentStatusGraduated = "GRADUATED"
	StudentStatusSuspended = "SUSPENDED"
	StudentStatusWithdrawn = "WITHDRAWN"
)

// StudentStatuses lists every recognized status.
func StudentStatuses() []string {
	return []string{
		StudentStatusActive,
		StudentStatusInactive,
		StudentStatusGraduated,
		StudentStatusSuspended,
		StudentStatusWithdrawn,
	}
}

// ValidStudentStatus reports whether status is recognized.
func ValidStudentStatus(status string) bool {
	for _, s := range StudentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Student is a student profile. Course membership lives in the
// course_enrollments join table owned by Course.
type Student struct {
	StudentID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	StudentNumber  string          `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_number"`
	FirstName      string          `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName       string          `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email          string          `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PhoneNumber    string          `gorm:"type:varchar(20)"                               json:"phone_number"`
	Major          string          `gorm:"type:varchar(100);not null"                     json:"major"`
	Year           int             `gorm:"not null"                                       json:"year"`
	GPA            decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0"           json:"gpa"`
	Status         string          `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"status"`
	EnrollmentDate *time.Time      `gorm:"type:date"                                      json:"enrollment_date,omitempty"`
	IsActive       bool            `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Student) TableName() string { return "students" }

// FullName joins first and last name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
