package model

import (
	"errors"
	"time"
)

// Enrollment precondition failures, checked in order by Enroll.
var (
	ErrCourseInactive   = errors.New("cannot enroll in inactive course")
	ErrEnrollmentClosed = errors.New("enrollment is closed for this course")
	ErrCourseFull       = errors.New("course is full")
	ErrAlreadyEnrolled  = errors.New("student is already enrolled in this course")
	ErrNotEnrolled      = errors.New("student is not enrolled in this course")
)

// Course is a course offering owned by exactly one instructor. The roster
// (EnrolledStudents) and the cached CurrentEnrollment counter must always
// agree; Enroll and Unenroll are the only mutation paths and keep them in
// sync.
type Course struct {
	CourseID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	CourseCode         string    `gorm:"type:varchar(20);not null;uniqueIndex"          json:"course_code"`
	CourseName         string    `gorm:"type:varchar(200);not null"                     json:"course_name"`
	Description        string    `gorm:"type:text"                                      json:"description"`
	Credits            int       `gorm:"not null"                                       json:"credits"`
	Department         string    `gorm:"type:varchar(100);not null"                     json:"department"`
	Semester           int       `gorm:"not null"                                       json:"semester"`
	StartDate          time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate            time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Schedule           string    `gorm:"type:varchar(100)"                              json:"schedule"`
	Location           string    `gorm:"type:varchar(50)"                               json:"location"`
	MaxCapacity        int       `gorm:"not null"                                       json:"max_capacity"`
	CurrentEnrollment  int       `gorm:"not null;default:0"                             json:"current_enrollment"`
	IsActive           bool      `gorm:"not null;default:true"                          json:"is_active"`
	EnrollmentOpen     bool      `gorm:"not null;default:true"                          json:"enrollment_open"`
	InstructorID       string    `gorm:"type:uuid;not null"                             json:"instructor_id"`
	BaseModel

	Instructor       *Instructor `gorm:"foreignKey:InstructorID;references:InstructorID" json:"instructor,omitempty"`
	EnrolledStudents []Student   `gorm:"many2many:course_enrollments;foreignKey:CourseID;joinForeignKey:CourseID;references:StudentID;joinReferences:StudentID" json:"enrolled_students,omitempty"`
}

// TableName sets the table name.
func (Course) TableName() string { return "courses" }

// ── derived state ──

// IsFull reports whether the roster has reached capacity.
func (c *Course) IsFull() bool {
	return c.CurrentEnrollment >= c.MaxCapacity
}

// AvailableSpots reports remaining capacity.
func (c *Course) AvailableSpots() int {
	return c.MaxCapacity - c.CurrentEnrollment
}

// CanEnroll reports whether a new enrollment would currently be accepted.
func (c *Course) CanEnroll() bool {
	return c.IsActive && c.EnrollmentOpen && !c.IsFull()
}

// HasStudent reports whether the student is on the roster.
func (c *Course) HasStudent(studentID string) bool {
	for i := range c.EnrolledStudents {
		if c.EnrolledStudents[i].StudentID == studentID {
			return true
		}
	}
	return false
}

// ── roster mutation ──
//
// These operate on the in-memory roster only; callers are responsible for
// running them against a row-locked, freshly loaded course and persisting
// the membership change together with CurrentEnrollment.

// Enroll adds the student to the roster. Preconditions are checked in
// order and the first failure wins; the roster is untouched on failure.
// Re-enrolling an already enrolled student is an error, not a no-op, so
// duplicate attempts surface to the caller.
func (c *Course) Enroll(student Student) error {
	if !c.IsActive {
		return ErrCourseInactive
	}
	if !c.EnrollmentOpen {
		return ErrEnrollmentClosed
	}
	if c.IsFull() {
		return ErrCourseFull
	}
	if c.HasStudent(student.StudentID) {
		return ErrAlreadyEnrolled
	}

	c.EnrolledStudents = append(c.EnrolledStudents, student)
	c.CurrentEnrollment = len(c.EnrolledStudents)
	return nil
}

// Unenroll removes the student from the roster. The course's active and
// enrollment-open flags are irrelevant here: leaving is always allowed.
func (c *Course) Unenroll(studentID string) error {
	for i := range c.EnrolledStudents {
		if c.EnrolledStudents[i].StudentID == studentID {
			c.EnrolledStudents = append(c.EnrolledStudents[:i], c.EnrolledStudents[i+1:]...)
			c.CurrentEnrollment = len(c.EnrolledStudents)
			return nil
		}
	}
	return ErrNotEnrolled
}
