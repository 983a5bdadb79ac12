package model

import "time"

// Instructor is a teaching staff profile. Each instructor owns zero or
// more courses; the companion User row shares the instructor's email.
type Instructor struct {
	InstructorID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	EmployeeID     string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"employee_id"`
	FirstName      string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName       string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PhoneNumber    string     `gorm:"type:varchar(20)"                               json:"phone_number"`
	Department     string     `gorm:"type:varchar(100);not null"                     json:"department"`
	Specialization string     `gorm:"type:varchar(100)"                              json:"specialization"`
	HireDate       *time.Time `gorm:"type:date"                                      json:"hire_date,omitempty"`
	IsActive       bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName sets the table name.
func (Instructor) TableName() string { return "instructors" }

// FullName joins first and last name.
func (i *Instructor) FullName() string {
	return i.FirstName + " " + i.LastName
}
