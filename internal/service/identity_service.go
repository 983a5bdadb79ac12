package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Identity resolution failures. These indicate an account whose email no
// longer matches any profile row, usually after a profile was edited
// directly in the database.
var (
	ErrNoInstructorProfile = errors.New("no instructor profile matches this account")
	ErrNoStudentProfile    = errors.New("no student profile matches this account")
)

// IdentityService resolves the authenticated account to its domain
// profile. Instructor and student accounts share their profile's email;
// that email is the join key.
type IdentityService struct {
	repo *repository.Repository
}

// NewIdentityService creates the identity resolver.
func NewIdentityService(repo *repository.Repository) *IdentityService {
	return &IdentityService{repo: repo}
}

// InstructorByEmail resolves the instructor profile for an account email.
func (s *IdentityService) InstructorByEmail(ctx context.Context, email string) (*model.Instructor, error) {
	instructor, err := s.repo.Instructor.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoInstructorProfile
		}
		return nil, err
	}
	if !instructor.IsActive {
		return nil, ErrNoInstructorProfile
	}
	return instructor, nil
}

// StudentByEmail resolves the student profile for an account email.
func (s *IdentityService) StudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	student, err := s.repo.Student.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoStudentProfile
		}
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrNoStudentProfile
	}
	return student, nil
}
