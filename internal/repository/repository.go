package repository

import "gorm.io/gorm"

// LabelCount is one bucket of a grouped count query.
type LabelCount struct {
	Label string `gorm:"column:label"`
	Count int64  `gorm:"column:count"`
}

// Repository aggregates every data-access interface.
type Repository struct {
	User          UserRepository
	Instructor    InstructorRepository
	Student       StudentRepository
	Course        CourseRepository
	CourseContent CourseContentRepository
	Result        ResultRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Instructor:    NewInstructorRepo(db),
		Student:       NewStudentRepo(db),
		Course:        NewCourseRepo(db),
		CourseContent: NewCourseContentRepo(db),
		Result:        NewResultRepo(db),
	}
}
