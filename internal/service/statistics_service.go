package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// StatisticsService computes the dashboard numbers for each role.
type StatisticsService struct {
	repo *repository.Repository
}

// NewStatisticsService creates the statistics service.
func NewStatisticsService(repo *repository.Repository) *StatisticsService {
	return &StatisticsService{repo: repo}
}

// Admin returns the system-wide overview.
func (s *StatisticsService) Admin(ctx context.Context) (*dto.AdminStatisticsResponse, error) {
	resp := &dto.AdminStatisticsResponse{UtilizationRate: decimal.Zero}

	var err error
	if resp.TotalInstructors, err = s.repo.Instructor.Count(ctx, false); err != nil {
		return nil, err
	}
	if resp.ActiveInstructors, err = s.repo.Instructor.Count(ctx, true); err != nil {
		return nil, err
	}
	if resp.TotalStudents, err = s.repo.Student.Count(ctx, false); err != nil {
		return nil, err
	}
	if resp.ActiveStudents, err = s.repo.Student.Count(ctx, true); err != nil {
		return nil, err
	}
	if resp.TotalCourses, err = s.repo.Course.Count(ctx, false); err != nil {
		return nil, err
	}
	if resp.ActiveCourses, err = s.repo.Course.Count(ctx, true); err != nil {
		return nil, err
	}
	if resp.TotalEnrollment, err = s.repo.Course.TotalEnrollment(ctx); err != nil {
		return nil, err
	}
	if resp.TotalCapacity, err = s.repo.Course.TotalCapacity(ctx); err != nil {
		return nil, err
	}

	if resp.TotalCapacity > 0 {
		resp.UtilizationRate = decimal.NewFromInt(resp.TotalEnrollment).
			Div(decimal.NewFromInt(resp.TotalCapacity)).
			Mul(hundred).Round(2)
	}

	if resp.CoursesByDepartment, err = toCountResponses(s.repo.Course.CountByDepartment(ctx)); err != nil {
		return nil, err
	}
	if resp.CoursesBySemester, err = toCountResponses(s.repo.Course.CountBySemester(ctx)); err != nil {
		return nil, err
	}
	if resp.StudentsByMajor, err = toCountResponses(s.repo.Student.CountByMajor(ctx)); err != nil {
		return nil, err
	}
	if resp.StudentsByYear, err = toCountResponses(s.repo.Student.CountByYear(ctx)); err != nil {
		return nil, err
	}
	for _, status := range model.StudentStatuses() {
		count, err := s.repo.Student.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		resp.StudentsByStatus = append(resp.StudentsByStatus, dto.CountResponse{Label: status, Count: count})
	}

	return resp, nil
}

func toCountResponses(counts []repository.LabelCount, err error) ([]dto.CountResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountResponse, len(counts))
	for i, c := range counts {
		out[i] = dto.CountResponse{Label: c.Label, Count: c.Count}
	}
	return out, nil
}

// Instructor returns the teaching overview for one instructor.
func (s *StatisticsService) Instructor(ctx context.Context, instructorID string) (*dto.InstructorStatisticsResponse, error) {
	instructor, err := s.repo.Instructor.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}

	// The course listing is active-only, so the all-time count comes
	// from the repository directly.
	total, err := s.repo.Course.CountByInstructor(ctx, instructorID, false)
	if err != nil {
		return nil, err
	}
	courses, err := s.repo.Course.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InstructorStatisticsResponse{
		Department:        instructor.Department,
		TotalCourses:      total,
		ActiveCourses:     int64(len(courses)),
		AverageEnrollment: decimal.Zero,
	}

	var totalStudents int64
	for i := range courses {
		totalStudents += int64(courses[i].CurrentEnrollment)
	}
	resp.TotalStudents = totalStudents

	if resp.ActiveCourses > 0 {
		resp.AverageEnrollment = decimal.NewFromInt(totalStudents).
			Div(decimal.NewFromInt(resp.ActiveCourses)).Round(2)
	}
	return resp, nil
}

// Student returns the academic overview for one student.
func (s *StatisticsService) Student(ctx context.Context, studentID string) (*dto.StudentStatisticsResponse, error) {
	courses, err := s.repo.Course.ListEnrolledByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentStatisticsResponse{
		EnrolledCourses: int64(len(courses)),
		AverageResult:   decimal.Zero,
	}
	for i := range courses {
		resp.TotalCredits += courses[i].Credits
	}

	results, err := s.repo.Result.ListByStudent(ctx, studentID, true)
	if err != nil {
		return nil, err
	}
	resp.ReleasedResults = len(results)

	if len(results) > 0 {
		sum := decimal.Zero
		for i := range results {
			sum = sum.Add(results[i].ResultValue)
		}
		resp.AverageResult = sum.Div(decimal.NewFromInt(int64(len(results)))).Round(2)
	}
	return resp, nil
}

// Course returns the enrollment snapshot of one course.
func (s *StatisticsService) Course(ctx context.Context, courseID string) (*dto.CourseStatisticsResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	resp := &dto.CourseStatisticsResponse{
		CourseCode:        course.CourseCode,
		CourseName:        course.CourseName,
		CurrentEnrollment: course.CurrentEnrollment,
		MaxCapacity:       course.MaxCapacity,
		AvailableSpots:    course.AvailableSpots(),
		EnrollmentOpen:    course.EnrollmentOpen,
		UtilizationRate:   decimal.Zero,
	}
	if course.MaxCapacity > 0 {
		resp.UtilizationRate = decimal.NewFromInt(int64(course.CurrentEnrollment)).
			Div(decimal.NewFromInt(int64(course.MaxCapacity))).
			Mul(hundred).Round(2)
	}
	return resp, nil
}
