package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Student management failures.
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrDuplicateStudentNumber = errors.New("student number already in use")
	ErrStudentNumberImmutable = errors.New("student number cannot be changed")
	ErrInvalidStudentStatus   = errors.New("invalid student status")
	ErrStudentHasEnrollments  = errors.New("student is still enrolled in courses")
	ErrEmptyImportFile        = errors.New("import file contains no data rows")
)

// Default password for auto-provisioned student accounts.
const defaultStudentPassword = "student123"

// StudentService manages student profiles. Creating a profile also
// provisions a login account: the username is the lowercased student
// number and the password starts at the well-known default.
type StudentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService creates the student service.
func NewStudentService(repo *repository.Repository, logger *zap.Logger) *StudentService {
	return &StudentService{repo: repo, logger: logger}
}

// Create registers a student profile and its login account.
func (s *StudentService) Create(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	if exists, err := s.repo.Student.ExistsByStudentNumber(ctx, req.StudentNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateStudentNumber
	}
	if exists, err := s.repo.Student.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	// An instructor or admin account may already hold the email.
	if exists, err := s.repo.User.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}

	status := req.Status
	if status == "" {
		status = model.StudentStatusActive
	}

	student := &model.Student{
		StudentNumber: req.StudentNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Major:         req.Major,
		Year:          req.Year,
		GPA:           req.GPA,
		Status:        status,
		IsActive:      true,
	}
	if req.EnrollmentDate != "" {
		d, err := time.Parse(dateLayout, req.EnrollmentDate)
		if err != nil {
			return nil, err
		}
		student.EnrollmentDate = &d
	}

	account, err := buildStudentAccount(student)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Student.CreateWithAccount(ctx, student, account); err != nil {
		return nil, err
	}

	s.logger.Info("student created",
		zap.String("student_id", student.StudentID),
		zap.String("student_number", student.StudentNumber))

	resp := toStudentResponse(student)
	return &resp, nil
}

// GetByID returns one student profile.
func (s *StudentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStudentResponse(student)
	return &resp, nil
}

// List returns student profiles, optionally only active ones.
func (s *StudentService) List(ctx context.Context, activeOnly bool) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(students), nil
}

// ListByMajor returns active students of one major.
func (s *StudentService) ListByMajor(ctx context.Context, major string) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.ListByMajor(ctx, major)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(students), nil
}

// ListByYear returns active students of one study year.
func (s *StudentService) ListByYear(ctx context.Context, year int) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(students), nil
}

// ListByStatus returns active students with one enrollment status.
func (s *StudentService) ListByStatus(ctx context.Context, status string) ([]dto.StudentResponse, error) {
	if !model.ValidStudentStatus(status) {
		return nil, ErrInvalidStudentStatus
	}
	students, err := s.repo.Student.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(students), nil
}

// Search returns active students whose name matches.
func (s *StudentService) Search(ctx context.Context, name string) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toStudentResponses(students), nil
}

// Majors lists the distinct majors of active students.
func (s *StudentService) Majors(ctx context.Context) ([]string, error) {
	return s.repo.Student.Majors(ctx)
}

// Statuses lists the recognized student statuses.
func (s *StudentService) Statuses() []string {
	return model.StudentStatuses()
}

// Update edits a profile. The student number is immutable; an email
// change propagates to the login account inside the repository
// transaction.
func (s *StudentService) Update(ctx context.Context, id string, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StudentNumber != student.StudentNumber {
		return nil, ErrStudentNumberImmutable
	}

	previousEmail := student.Email
	if req.Email != previousEmail {
		if exists, err := s.repo.Student.ExistsByEmail(ctx, req.Email); err != nil {
			return nil, err
		} else if exists {
			return nil, ErrDuplicateEmail
		}
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.PhoneNumber = req.PhoneNumber
	student.Major = req.Major
	student.Year = req.Year
	student.GPA = req.GPA
	if req.Status != "" {
		if !model.ValidStudentStatus(req.Status) {
			return nil, ErrInvalidStudentStatus
		}
		student.Status = req.Status
	}
	if req.EnrollmentDate != "" {
		d, err := time.Parse(dateLayout, req.EnrollmentDate)
		if err != nil {
			return nil, err
		}
		student.EnrollmentDate = &d
	} else {
		student.EnrollmentDate = nil
	}

	if err := s.repo.Student.Update(ctx, student, previousEmail); err != nil {
		return nil, err
	}

	resp := toStudentResponse(student)
	return &resp, nil
}

// Deactivate retires a student and disables the login account. Course
// memberships and results are preserved for the record.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return err
	}

	student.IsActive = false
	if err := s.repo.Student.Update(ctx, student, ""); err != nil {
		return err
	}

	account, err := s.repo.User.GetByEmail(ctx, student.Email)
	if err == nil {
		account.IsActive = false
		if err := s.repo.User.Update(ctx, account); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	s.logger.Info("student deactivated", zap.String("student_id", id))
	return nil
}

// Delete removes the profile and login account permanently; result rows
// cascade. Refused while the student is still on any roster, so course
// counters never go stale.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.getStudent(ctx, id); err != nil {
		return err
	}

	enrolled, err := s.repo.Course.ListEnrolledByStudent(ctx, id)
	if err != nil {
		return err
	}
	if len(enrolled) > 0 {
		return ErrStudentHasEnrollments
	}

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// Activate restores a deactivated student and re-enables the login
// account.
func (s *StudentService) Activate(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	student.IsActive = true
	if err := s.repo.Student.Update(ctx, student, ""); err != nil {
		return nil, err
	}

	account, err := s.repo.User.GetByEmail(ctx, student.Email)
	if err == nil {
		account.IsActive = true
		if err := s.repo.User.Update(ctx, account); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.logger.Info("student activated", zap.String("student_id", id))
	resp := toStudentResponse(student)
	return &resp, nil
}

// UpdateProfile lets a student change their own contact details.
func (s *StudentService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateStudentProfileRequest) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	student.PhoneNumber = req.PhoneNumber
	if err := s.repo.Student.Update(ctx, student, ""); err != nil {
		return nil, err
	}

	resp := toStudentResponse(student)
	return &resp, nil
}

// ── Excel import ──

// Column order expected by ImportFromExcel; the first row is a header.
var importHeader = []string{
	"Student Number", "First Name", "Last Name", "Email",
	"Major", "Year", "Phone Number", "Status",
}

// ImportFromExcel bulk-creates students from an uploaded workbook. Each
// data row is independent: a bad row is reported and skipped, the rest
// are imported.
func (s *StudentService) ImportFromExcel(ctx context.Context, r io.Reader) (*dto.ImportStudentResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyImportFile
	}

	resp := &dto.ImportStudentResponse{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		resp.Total++

		req, err := parseImportRow(row)
		if err == nil {
			_, err = s.Create(ctx, req)
		}
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportStudentError{
				Row:    rowNum,
				Reason: err.Error(),
			})
			continue
		}
		resp.Success++
	}

	s.logger.Info("student import finished",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed))

	return resp, nil
}

// ImportTemplate builds an empty workbook with the expected header row.
func (s *StudentService) ImportTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, title := range importHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseImportRow(row []string) (*dto.StudentRequest, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	req := &dto.StudentRequest{
		StudentNumber: cell(0),
		FirstName:     cell(1),
		LastName:      cell(2),
		Email:         cell(3),
		Major:         cell(4),
		PhoneNumber:   cell(6),
		Status:        cell(7),
		GPA:           decimal.Zero,
	}

	if req.StudentNumber == "" || req.FirstName == "" || req.LastName == "" ||
		req.Email == "" || req.Major == "" {
		return nil, errors.New("missing required field")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, errors.New("invalid email")
	}

	year, err := strconv.Atoi(cell(5))
	if err != nil || year < 1 || year > 6 {
		return nil, errors.New("year must be a number between 1 and 6")
	}
	req.Year = year

	if req.Status != "" && !model.ValidStudentStatus(req.Status) {
		return nil, ErrInvalidStudentStatus
	}

	return req, nil
}

// ── helpers ──

func buildStudentAccount(student *model.Student) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultStudentPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Username:     strings.ToLower(student.StudentNumber),
		FirstName:    student.FirstName,
		LastName:     student.LastName,
		Email:        student.Email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		IsActive:     true,
	}, nil
}

func (s *StudentService) getStudent(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// ── mapping ──

func toStudentResponse(st *model.Student) dto.StudentResponse {
	resp := dto.StudentResponse{
		ID:            st.StudentID,
		StudentNumber: st.StudentNumber,
		FirstName:     st.FirstName,
		LastName:      st.LastName,
		FullName:      st.FullName(),
		Email:         st.Email,
		PhoneNumber:   st.PhoneNumber,
		Major:         st.Major,
		Year:          st.Year,
		GPA:           st.GPA,
		Status:        st.Status,
		IsActive:      st.IsActive,
		CreatedAt:     st.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     st.UpdatedAt.Format(time.RFC3339),
	}
	if st.EnrollmentDate != nil {
		resp.EnrollmentDate = st.EnrollmentDate.Format(dateLayout)
	}
	return resp
}

func toStudentResponses(students []model.Student) []dto.StudentResponse {
	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, toStudentResponse(&students[i]))
	}
	return out
}
