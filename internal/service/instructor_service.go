package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Instructor management failures.
var (
	ErrInstructorNotFound   = errors.New("instructor not found")
	ErrDuplicateEmployeeID  = errors.New("employee ID already in use")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrInstructorHasCourses = errors.New("instructor still has active courses")
	ErrEmployeeIDImmutable  = errors.New("employee ID cannot be changed")
)

// Default password for auto-provisioned instructor accounts.
const defaultInstructorPassword = "instructor123"

const dateLayout = "2006-01-02"

// InstructorService manages instructor profiles. Creating a profile also
// provisions a login account: the username is the lowercased employee ID
// and the password starts at the well-known default.
type InstructorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInstructorService creates the instructor service.
func NewInstructorService(repo *repository.Repository, logger *zap.Logger) *InstructorService {
	return &InstructorService{repo: repo, logger: logger}
}

// Create registers an instructor profile and its login account.
func (s *InstructorService) Create(ctx context.Context, req *dto.InstructorRequest) (*dto.InstructorResponse, error) {
	if exists, err := s.repo.Instructor.ExistsByEmployeeID(ctx, req.EmployeeID); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmployeeID
	}
	if exists, err := s.repo.Instructor.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	// A student or admin account may already hold the email.
	if exists, err := s.repo.User.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}

	instructor := &model.Instructor{
		EmployeeID:     req.EmployeeID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Department:     req.Department,
		Specialization: req.Specialization,
		IsActive:       true,
	}
	if req.HireDate != "" {
		d, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			return nil, err
		}
		instructor.HireDate = &d
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultInstructorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := &model.User{
		Username:     strings.ToLower(req.EmployeeID),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleInstructor,
		IsActive:     true,
	}
	if err := s.repo.Instructor.CreateWithAccount(ctx, instructor, account); err != nil {
		return nil, err
	}

	s.logger.Info("instructor created",
		zap.String("instructor_id", instructor.InstructorID),
		zap.String("employee_id", instructor.EmployeeID))

	resp := toInstructorResponse(instructor)
	return &resp, nil
}

// GetByID returns one instructor profile.
func (s *InstructorService) GetByID(ctx context.Context, id string) (*dto.InstructorResponse, error) {
	instructor, err := s.getInstructor(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInstructorResponse(instructor)
	return &resp, nil
}

// List returns instructor profiles, optionally only active ones.
func (s *InstructorService) List(ctx context.Context, activeOnly bool) ([]dto.InstructorResponse, error) {
	instructors, err := s.repo.Instructor.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return toInstructorResponses(instructors), nil
}

// ListByDepartment returns active instructors of one department.
func (s *InstructorService) ListByDepartment(ctx context.Context, department string) ([]dto.InstructorResponse, error) {
	instructors, err := s.repo.Instructor.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return toInstructorResponses(instructors), nil
}

// Search returns active instructors whose name matches.
func (s *InstructorService) Search(ctx context.Context, name string) ([]dto.InstructorResponse, error) {
	instructors, err := s.repo.Instructor.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toInstructorResponses(instructors), nil
}

// Departments lists the distinct departments of active instructors.
func (s *InstructorService) Departments(ctx context.Context) ([]string, error) {
	return s.repo.Instructor.Departments(ctx)
}

// Specializations lists the distinct specializations of active instructors.
func (s *InstructorService) Specializations(ctx context.Context) ([]string, error) {
	return s.repo.Instructor.Specializations(ctx)
}

// Update edits a profile. The employee ID is immutable; an email change
// propagates to the login account inside the repository transaction.
func (s *InstructorService) Update(ctx context.Context, id string, req *dto.InstructorRequest) (*dto.InstructorResponse, error) {
	instructor, err := s.getInstructor(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != instructor.EmployeeID {
		return nil, ErrEmployeeIDImmutable
	}

	previousEmail := instructor.Email
	if req.Email != previousEmail {
		if exists, err := s.repo.Instructor.ExistsByEmail(ctx, req.Email); err != nil {
			return nil, err
		} else if exists {
			return nil, ErrDuplicateEmail
		}
	}

	instructor.FirstName = req.FirstName
	instructor.LastName = req.LastName
	instructor.Email = req.Email
	instructor.PhoneNumber = req.PhoneNumber
	instructor.Department = req.Department
	instructor.Specialization = req.Specialization
	if req.HireDate != "" {
		d, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			return nil, err
		}
		instructor.HireDate = &d
	} else {
		instructor.HireDate = nil
	}

	if err := s.repo.Instructor.Update(ctx, instructor, previousEmail); err != nil {
		return nil, err
	}

	resp := toInstructorResponse(instructor)
	return &resp, nil
}

// Deactivate retires an instructor and disables the login account. The
// profile survives so past courses and results keep their references.
// Refused while the instructor still owns active courses.
func (s *InstructorService) Deactivate(ctx context.Context, id string) error {
	instructor, err := s.getInstructor(ctx, id)
	if err != nil {
		return err
	}

	courses, err := s.repo.Course.CountByInstructor(ctx, id, true)
	if err != nil {
		return err
	}
	if courses > 0 {
		return ErrInstructorHasCourses
	}

	instructor.IsActive = false
	if err := s.repo.Instructor.Update(ctx, instructor, ""); err != nil {
		return err
	}

	account, err := s.repo.User.GetByEmail(ctx, instructor.Email)
	if err == nil {
		account.IsActive = false
		if err := s.repo.User.Update(ctx, account); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	s.logger.Info("instructor deactivated", zap.String("instructor_id", id))
	return nil
}

// Delete removes the profile and login account permanently, along with
// the instructor's content and result rows. Subject to the same
// owned-courses rule as deactivation.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.getInstructor(ctx, id); err != nil {
		return err
	}

	courses, err := s.repo.Course.CountByInstructor(ctx, id, true)
	if err != nil {
		return err
	}
	if courses > 0 {
		return ErrInstructorHasCourses
	}

	if err := s.repo.Instructor.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("instructor deleted", zap.String("instructor_id", id))
	return nil
}

// Activate restores a deactivated instructor and re-enables the login
// account.
func (s *InstructorService) Activate(ctx context.Context, id string) (*dto.InstructorResponse, error) {
	instructor, err := s.getInstructor(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor.IsActive = true
	if err := s.repo.Instructor.Update(ctx, instructor, ""); err != nil {
		return nil, err
	}

	account, err := s.repo.User.GetByEmail(ctx, instructor.Email)
	if err == nil {
		account.IsActive = true
		if err := s.repo.User.Update(ctx, account); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.logger.Info("instructor activated", zap.String("instructor_id", id))
	resp := toInstructorResponse(instructor)
	return &resp, nil
}

// UpdateProfile lets an instructor change their own contact details.
func (s *InstructorService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateInstructorProfileRequest) (*dto.InstructorResponse, error) {
	instructor, err := s.getInstructor(ctx, id)
	if err != nil {
		return nil, err
	}

	instructor.PhoneNumber = req.PhoneNumber
	if req.Specialization != "" {
		instructor.Specialization = req.Specialization
	}
	if err := s.repo.Instructor.Update(ctx, instructor, ""); err != nil {
		return nil, err
	}

	resp := toInstructorResponse(instructor)
	return &resp, nil
}

func (s *InstructorService) getInstructor(ctx context.Context, id string) (*model.Instructor, error) {
	instructor, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return instructor, nil
}

// ── mapping ──

func toInstructorResponse(i *model.Instructor) dto.InstructorResponse {
	resp := dto.InstructorResponse{
		ID:             i.InstructorID,
		EmployeeID:     i.EmployeeID,
		FirstName:      i.FirstName,
		LastName:       i.LastName,
		FullName:       i.FullName(),
		Email:          i.Email,
		PhoneNumber:    i.PhoneNumber,
		Department:     i.Department,
		Specialization: i.Specialization,
		IsActive:       i.IsActive,
		CreatedAt:      i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      i.UpdatedAt.Format(time.RFC3339),
	}
	if i.HireDate != nil {
		resp.HireDate = i.HireDate.Format(dateLayout)
	}
	return resp
}

func toInstructorResponses(instructors []model.Instructor) []dto.InstructorResponse {
	out := make([]dto.InstructorResponse, 0, len(instructors))
	for i := range instructors {
		out = append(out, toInstructorResponse(&instructors[i]))
	}
	return out
}
