package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Course management failures.
var (
	ErrCourseNotFound          = errors.New("course not found")
	ErrDuplicateCourseCode     = errors.New("course code already in use")
	ErrCourseCodeImmutable     = errors.New("course code cannot be changed")
	ErrNotCourseOwner          = errors.New("course belongs to another instructor")
	ErrCourseHasEnrollments    = errors.New("course still has enrolled students")
	ErrInvalidDateRange        = errors.New("end date must be after start date")
	ErrCapacityBelowEnrollment = errors.New("capacity cannot be lower than current enrollment")
)

// CourseService manages courses and the enrollment lifecycle. Instructor
// scoped methods take the acting instructor's profile ID and refuse to
// touch courses owned by anyone else; an empty actor ID means the caller
// is an admin and skips the ownership check.
type CourseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates the course service.
func NewCourseService(repo *repository.Repository, logger *zap.Logger) *CourseService {
	return &CourseService{repo: repo, logger: logger}
}

// ── CRUD ──

// Create registers a course under an existing active instructor.
func (s *CourseService) Create(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	if exists, err := s.repo.Course.ExistsByCode(ctx, req.CourseCode); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateCourseCode
	}

	instructor, err := s.repo.Instructor.GetByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	if !instructor.IsActive {
		return nil, ErrInstructorNotFound
	}

	startDate, endDate, err := parseCourseDates(req)
	if err != nil {
		return nil, err
	}

	enrollmentOpen := true
	if req.EnrollmentOpen != nil {
		enrollmentOpen = *req.EnrollmentOpen
	}

	course := &model.Course{
		CourseCode:     req.CourseCode,
		CourseName:     req.CourseName,
		Description:    req.Description,
		Credits:        req.Credits,
		Department:     req.Department,
		Semester:       req.Semester,
		StartDate:      startDate,
		EndDate:        endDate,
		Schedule:       req.Schedule,
		Location:       req.Location,
		MaxCapacity:    req.MaxCapacity,
		IsActive:       true,
		EnrollmentOpen: enrollmentOpen,
		InstructorID:   req.InstructorID,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		return nil, err
	}
	course.Instructor = instructor

	s.logger.Info("course created",
		zap.String("course_id", course.CourseID),
		zap.String("course_code", course.CourseCode))

	resp := toCourseResponse(course, false)
	return &resp, nil
}

// GetByID returns one course with its roster.
func (s *CourseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course, true)
	return &resp, nil
}

// GetByCode returns one course by its code, without the roster.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(course, false)
	return &resp, nil
}

// List returns courses, optionally only active ones.
func (s *CourseService) List(ctx context.Context, activeOnly bool) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// ListByDepartment returns active courses of one department.
func (s *CourseService) ListByDepartment(ctx context.Context, department string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// ListBySemester returns active courses of one semester.
func (s *CourseService) ListBySemester(ctx context.Context, semester int) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListBySemester(ctx, semester)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// Search returns active courses matching a name or code fragment.
func (s *CourseService) Search(ctx context.Context, query string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// Departments lists the distinct departments of active courses.
func (s *CourseService) Departments(ctx context.Context) ([]string, error) {
	return s.repo.Course.Departments(ctx)
}

// Semesters lists the distinct semesters of active courses.
func (s *CourseService) Semesters(ctx context.Context) ([]int, error) {
	return s.repo.Course.Semesters(ctx)
}

// Update edits a course. The code is immutable; capacity cannot go
// below the current enrollment. A non-empty actor restricts the edit to
// the owning instructor, who also cannot hand the course to someone
// else.
func (s *CourseService) Update(ctx context.Context, id string, req *dto.CourseRequest, actorInstructorID string) (*dto.CourseResponse, error) {
	course, err := s.getOwnedCourse(ctx, id, actorInstructorID)
	if err != nil {
		return nil, err
	}
	if req.CourseCode != course.CourseCode {
		return nil, ErrCourseCodeImmutable
	}
	if req.MaxCapacity < course.CurrentEnrollment {
		return nil, ErrCapacityBelowEnrollment
	}
	if actorInstructorID != "" && req.InstructorID != course.InstructorID {
		return nil, ErrNotCourseOwner
	}

	if req.InstructorID != course.InstructorID {
		instructor, err := s.repo.Instructor.GetByID(ctx, req.InstructorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInstructorNotFound
			}
			return nil, err
		}
		if !instructor.IsActive {
			return nil, ErrInstructorNotFound
		}
		course.Instructor = instructor
	}

	startDate, endDate, err := parseCourseDates(req)
	if err != nil {
		return nil, err
	}

	course.CourseName = req.CourseName
	course.Description = req.Description
	course.Credits = req.Credits
	course.Department = req.Department
	course.Semester = req.Semester
	course.StartDate = startDate
	course.EndDate = endDate
	course.Schedule = req.Schedule
	course.Location = req.Location
	course.MaxCapacity = req.MaxCapacity
	course.InstructorID = req.InstructorID
	if req.EnrollmentOpen != nil {
		course.EnrollmentOpen = *req.EnrollmentOpen
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}

	resp := toCourseResponse(course, true)
	return &resp, nil
}

// Deactivate retires a course. Refused while students remain on the
// roster, so nobody loses an enrollment silently.
func (s *CourseService) Deactivate(ctx context.Context, id string) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}
	if course.CurrentEnrollment > 0 {
		return ErrCourseHasEnrollments
	}

	course.IsActive = false
	course.EnrollmentOpen = false
	if err := s.repo.Course.Update(ctx, course); err != nil {
		return err
	}

	s.logger.Info("course deactivated", zap.String("course_id", id))
	return nil
}

// Activate brings a deactivated course back. Enrollment stays closed
// until reopened explicitly.
func (s *CourseService) Activate(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	course.IsActive = true
	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course activated", zap.String("course_id", id))
	resp := toCourseResponse(course, false)
	return &resp, nil
}

// Delete removes a course permanently, content and results included.
// Like deactivation it is refused while students remain on the roster.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}
	if course.CurrentEnrollment > 0 {
		return ErrCourseHasEnrollments
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

// ── enrollment ──

// EnrollStudent adds a student to a course and returns the refreshed
// course so the caller sees the new enrollment count. Existence is
// checked here; the capacity, state and duplicate checks run inside
// the repository under the course row lock.
func (s *CourseService) EnrollStudent(ctx context.Context, courseID, studentID string) (*dto.CourseResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrStudentNotFound
	}

	if err := s.repo.Course.EnrollStudent(ctx, courseID, studentID); err != nil {
		return nil, err
	}

	s.logger.Info("student enrolled",
		zap.String("course_id", courseID),
		zap.String("student_id", studentID))
	return s.GetByID(ctx, courseID)
}

// UnenrollStudent removes a student from a course and returns the
// refreshed course. Always allowed while the membership exists,
// regardless of the course's flags.
func (s *CourseService) UnenrollStudent(ctx context.Context, courseID, studentID string) (*dto.CourseResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	if err := s.repo.Course.UnenrollStudent(ctx, courseID, studentID); err != nil {
		return nil, err
	}

	s.logger.Info("student unenrolled",
		zap.String("course_id", courseID),
		zap.String("student_id", studentID))
	return s.GetByID(ctx, courseID)
}

// RemoveStudent drops a student from a course the acting instructor owns.
func (s *CourseService) RemoveStudent(ctx context.Context, courseID, studentID, actorInstructorID string) error {
	if _, err := s.getOwnedCourse(ctx, courseID, actorInstructorID); err != nil {
		return err
	}

	if err := s.repo.Course.UnenrollStudent(ctx, courseID, studentID); err != nil {
		return err
	}

	s.logger.Info("student removed from course",
		zap.String("course_id", courseID),
		zap.String("student_id", studentID),
		zap.String("instructor_id", actorInstructorID))
	return nil
}

// SetEnrollmentOpen flips the enrollment window. An instructor actor
// must own the course.
func (s *CourseService) SetEnrollmentOpen(ctx context.Context, courseID string, open bool, actorInstructorID string) (*dto.CourseResponse, error) {
	course, err := s.getOwnedCourse(ctx, courseID, actorInstructorID)
	if err != nil {
		return nil, err
	}

	course.EnrollmentOpen = open
	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}

	resp := toCourseResponse(course, false)
	return &resp, nil
}

// ── instructor views ──

// ListOwned returns the acting instructor's active courses with rosters.
func (s *CourseService) ListOwned(ctx context.Context, instructorID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i], true))
	}
	return out, nil
}

// GetOwned returns one course with roster, refusing other instructors'
// courses.
func (s *CourseService) GetOwned(ctx context.Context, courseID, actorInstructorID string) (*dto.CourseResponse, error) {
	course, err := s.getOwnedCourse(ctx, courseID, actorInstructorID)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course, true)
	return &resp, nil
}

// Roster returns the roster of an owned course.
func (s *CourseService) Roster(ctx context.Context, courseID, actorInstructorID string) ([]dto.EnrolledStudentInfo, error) {
	course, err := s.getOwnedCourse(ctx, courseID, actorInstructorID)
	if err != nil {
		return nil, err
	}
	return toRoster(course), nil
}

// ExportRoster builds an Excel workbook of an owned course's roster.
func (s *CourseService) ExportRoster(ctx context.Context, courseID, actorInstructorID string) (*excelize.File, string, error) {
	course, err := s.getOwnedCourse(ctx, courseID, actorInstructorID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []string{"Student Number", "Full Name", "Email", "Major", "Year"}
	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}

	for row := range course.EnrolledStudents {
		st := &course.EnrolledStudents[row]
		values := []interface{}{
			st.StudentNumber, st.FullName(), st.Email, st.Major, st.Year,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	filename := fmt.Sprintf("roster_%s.xlsx", course.CourseCode)
	return f, filename, nil
}

// ── student views ──

// ListAvailable returns active, open, non-full courses the student has
// not joined yet.
func (s *CourseService) ListAvailable(ctx context.Context, studentID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListAvailableForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// ListEnrolled returns the student's current courses.
func (s *CourseService) ListEnrolled(ctx context.Context, studentID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListEnrolledByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toCourseResponses(courses), nil
}

// GetEnrolled returns one of the student's courses. Courses the student
// is not a member of stay hidden.
func (s *CourseService) GetEnrolled(ctx context.Context, courseID, studentID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.repo.Course.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotCourseMember
	}
	resp := toCourseResponse(course, false)
	return &resp, nil
}

// ── helpers ──

func (s *CourseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) getOwnedCourse(ctx context.Context, courseID, actorInstructorID string) (*model.Course, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if actorInstructorID != "" && course.InstructorID != actorInstructorID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

func parseCourseDates(req *dto.CourseRequest) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

// ── mapping ──

func toCourseResponse(c *model.Course, includeRoster bool) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:                c.CourseID,
		CourseCode:        c.CourseCode,
		CourseName:        c.CourseName,
		Description:       c.Description,
		Credits:           c.Credits,
		Department:        c.Department,
		Semester:          c.Semester,
		StartDate:         c.StartDate.Format(dateLayout),
		EndDate:           c.EndDate.Format(dateLayout),
		Schedule:          c.Schedule,
		Location:          c.Location,
		MaxCapacity:       c.MaxCapacity,
		CurrentEnrollment: c.CurrentEnrollment,
		AvailableSpots:    c.AvailableSpots(),
		IsFull:            c.IsFull(),
		CanEnroll:         c.CanEnroll(),
		IsActive:          c.IsActive,
		EnrollmentOpen:    c.EnrollmentOpen,
		InstructorID:      c.InstructorID,
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Instructor != nil {
		resp.InstructorName = c.Instructor.FullName()
		resp.InstructorEmail = c.Instructor.Email
	}
	if includeRoster {
		resp.EnrolledStudents = toRoster(c)
	}
	return resp
}

func toRoster(c *model.Course) []dto.EnrolledStudentInfo {
	roster := make([]dto.EnrolledStudentInfo, 0, len(c.EnrolledStudents))
	for i := range c.EnrolledStudents {
		st := &c.EnrolledStudents[i]
		roster = append(roster, dto.EnrolledStudentInfo{
			ID:            st.StudentID,
			StudentNumber: st.StudentNumber,
			FullName:      st.FullName(),
			Email:         st.Email,
			Major:         st.Major,
			Year:          st.Year,
		})
	}
	return roster
}

func toCourseResponses(courses []model.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i], false))
	}
	return out
}
