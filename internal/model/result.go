package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result types.
const (
	ResultTypeAssignment    = "ASSIGNMENT"
	ResultTypeQuiz          = "QUIZ"
	ResultTypeMidterm       = "MIDTERM"
	ResultTypeFinal         = "FINAL"
	ResultTypeProject       = "PROJECT"
	ResultTypeParticipation = "PARTICIPATION"
	ResultTypePresentation  = "PRESENTATION"
	ResultTypeLab           = "LAB"
	ResultTypeOther         = "OTHER"
)

var resultTypeDisplayNames = map[string]string{
	ResultTypeAssignment:    "Assignment",
	ResultTypeQuiz:          "Quiz",
	ResultTypeMidterm:       "Midterm Exam",
	ResultTypeFinal:         "Final Exam",
	ResultTypeProject:       "Project",
	ResultTypeParticipation: "Participation",
	ResultTypePresentation:  "Presentation",
	ResultTypeLab:           "Lab Work",
	ResultTypeOther:         "Other",
}

// ResultTypes lists every recognized result type.
func ResultTypes() []string {
	return []string{
		ResultTypeAssignment,
		ResultTypeQuiz,
		ResultTypeMidterm,
		ResultTypeFinal,
		ResultTypeProject,
		ResultTypeParticipation,
		ResultTypePresentation,
		ResultTypeLab,
		ResultTypeOther,
	}
}

// ValidResultType reports whether t is recognized.
func ValidResultType(t string) bool {
	_, ok := resultTypeDisplayNames[t]
	return ok
}

// ResultTypeDisplayName returns the human-readable name for a result type.
func ResultTypeDisplayName(t string) string {
	if name, ok := resultTypeDisplayNames[t]; ok {
		return name
	}
	return t
}

// Result is a grade record for one assessment of one student in one
// course. At most one active result exists per
// (course, student, type, title).
type Result struct {
	ResultID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"result_id"`
	ResultValue  decimal.Decimal `gorm:"type:numeric(5,2);not null"                     json:"result_value"`
	ResultType   string          `gorm:"type:varchar(20);not null"                      json:"result_type"`
	Title        string          `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string          `gorm:"type:text"                                      json:"description"`
	IsReleased   bool            `gorm:"not null;default:false"                         json:"is_released"`
	IsActive     bool            `gorm:"not null;default:true"                          json:"is_active"`
	ReleasedAt   *time.Time      `json:"released_at,omitempty"`
	StudentID    string          `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID     string          `gorm:"type:uuid;not null"                             json:"course_id"`
	InstructorID string          `gorm:"type:uuid;not null"                             json:"instructor_id"`
	BaseModel

	Student    *Student    `gorm:"foreignKey:StudentID;references:StudentID"          json:"student,omitempty"`
	Course     *Course     `gorm:"foreignKey:CourseID;references:CourseID"            json:"course,omitempty"`
	Instructor *Instructor `gorm:"foreignKey:InstructorID;references:InstructorID"    json:"instructor,omitempty"`
}

// TableName sets the table name.
func (Result) TableName() string { return "results" }

// Release marks the result visible to its student. Idempotent: ReleasedAt
// is stamped only on the draft→released edge, so repeated calls preserve
// the first release timestamp.
func (r *Result) Release() {
	if r.IsReleased {
		return
	}
	r.IsReleased = true
	now := time.Now()
	r.ReleasedAt = &now
}

// Unrelease hides the result from the student and clears ReleasedAt.
func (r *Result) Unrelease() {
	r.IsReleased = false
	r.ReleasedAt = nil
}

// LetterResult maps the numeric value to a letter grade.
func (r *Result) LetterResult() string {
	switch {
	case r.ResultValue.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return "A"
	case r.ResultValue.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return "B"
	case r.ResultValue.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return "C"
	case r.ResultValue.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return "D"
	default:
		return "F"
	}
}
