package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Grade record failures.
var (
	ErrResultNotFound        = errors.New("result not found")
	ErrInvalidResultType     = errors.New("invalid result type")
	ErrResultValueOutOfRange = errors.New("result value must be between 0 and 100")
	ErrDuplicateAssessment   = errors.New("an active result already exists for this assessment")
)

var maxResultValue = decimal.NewFromInt(100)

// ResultService manages grade records and their release lifecycle.
// Instructors touch only results of courses they own; students see only
// released results of their own.
type ResultService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResultService creates the result service.
func NewResultService(repo *repository.Repository, logger *zap.Logger) *ResultService {
	return &ResultService{repo: repo, logger: logger}
}

// ── instructor side ──

// Create records a grade for an enrolled student of an owned course. The
// assessment identity (course, student, type, title) must be free among
// active results.
func (s *ResultService) Create(ctx context.Context, actorInstructorID string, req *dto.ResultRequest) (*dto.ResultResponse, error) {
	if err := validateResultRequest(req); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, req.CourseID, actorInstructorID); err != nil {
		return nil, err
	}

	enrolled, err := s.repo.Course.IsEnrolled(ctx, req.CourseID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotCourseMember
	}

	taken, err := s.repo.Result.ExistsActiveAssessment(ctx, req.CourseID, req.StudentID, req.ResultType, req.Title, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateAssessment
	}

	result := &model.Result{
		ResultValue:  req.ResultValue,
		ResultType:   req.ResultType,
		Title:        req.Title,
		Description:  req.Description,
		IsActive:     true,
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		InstructorID: actorInstructorID,
	}
	if req.IsReleased {
		result.Release()
	}

	if err := s.repo.Result.Create(ctx, result); err != nil {
		return nil, err
	}

	s.logger.Info("result created",
		zap.String("result_id", result.ResultID),
		zap.String("course_id", result.CourseID),
		zap.String("student_id", result.StudentID))

	resp := toResultResponse(result)
	return &resp, nil
}

// Get returns one grade record of an owned course, draft or released.
func (s *ResultService) Get(ctx context.Context, resultID, actorInstructorID string) (*dto.ResultResponse, error) {
	result, err := s.getOwnedResult(ctx, resultID, actorInstructorID)
	if err != nil {
		return nil, err
	}
	resp := toResultResponse(result)
	return &resp, nil
}

// Update edits a grade record of an owned course. The release flag is
// not touched here; use Release and Unrelease.
func (s *ResultService) Update(ctx context.Context, resultID, actorInstructorID string, req *dto.ResultRequest) (*dto.ResultResponse, error) {
	if err := validateResultRequest(req); err != nil {
		return nil, err
	}
	result, err := s.getOwnedResult(ctx, resultID, actorInstructorID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.Result.ExistsActiveAssessment(ctx,
		result.CourseID, result.StudentID, req.ResultType, req.Title, result.ResultID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateAssessment
	}

	result.ResultValue = req.ResultValue
	result.ResultType = req.ResultType
	result.Title = req.Title
	result.Description = req.Description

	if err := s.repo.Result.Update(ctx, result); err != nil {
		return nil, err
	}

	resp := toResultResponse(result)
	return &resp, nil
}

// Delete retires a grade record of an owned course, freeing its
// assessment slot.
func (s *ResultService) Delete(ctx context.Context, resultID, actorInstructorID string) error {
	result, err := s.getOwnedResult(ctx, resultID, actorInstructorID)
	if err != nil {
		return err
	}
	if err := s.repo.Result.Delete(ctx, result.ResultID); err != nil {
		return err
	}

	s.logger.Info("result deleted", zap.String("result_id", resultID))
	return nil
}

// Release makes one result visible to its student. Releasing an already
// released result keeps the original release timestamp.
func (s *ResultService) Release(ctx context.Context, resultID, actorInstructorID string) (*dto.ResultResponse, error) {
	return s.setReleased(ctx, resultID, actorInstructorID, true)
}

// Unrelease hides one result from its student again.
func (s *ResultService) Unrelease(ctx context.Context, resultID, actorInstructorID string) (*dto.ResultResponse, error) {
	return s.setReleased(ctx, resultID, actorInstructorID, false)
}

// BulkRelease releases every draft result of an owned course.
func (s *ResultService) BulkRelease(ctx context.Context, courseID, actorInstructorID string) (*dto.BulkReleaseResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	affected, err := s.repo.Result.BulkRelease(ctx, courseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("results bulk released",
		zap.String("course_id", courseID),
		zap.Int64("affected", affected))

	return &dto.BulkReleaseResponse{CourseID: courseID, Affected: affected}, nil
}

// BulkUnrelease hides every released result of an owned course.
func (s *ResultService) BulkUnrelease(ctx context.Context, courseID, actorInstructorID string) (*dto.BulkReleaseResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	affected, err := s.repo.Result.BulkUnrelease(ctx, courseID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("results bulk unreleased",
		zap.String("course_id", courseID),
		zap.Int64("affected", affected))

	return &dto.BulkReleaseResponse{CourseID: courseID, Affected: affected}, nil
}

// ListByCourse returns every active result of an owned course, drafts
// included.
func (s *ResultService) ListByCourse(ctx context.Context, courseID, actorInstructorID string) ([]dto.ResultResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	results, err := s.repo.Result.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toResultResponses(results), nil
}

// ListByCourseAndStudent returns one student's active results in an
// owned course, drafts included.
func (s *ResultService) ListByCourseAndStudent(ctx context.Context, courseID, studentID, actorInstructorID string) ([]dto.ResultResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	results, err := s.repo.Result.ListByCourseAndStudent(ctx, courseID, studentID, false)
	if err != nil {
		return nil, err
	}
	return toResultResponses(results), nil
}

// StudentCourseAverage averages one student's active results in an
// owned course, drafts included.
func (s *ResultService) StudentCourseAverage(ctx context.Context, courseID, studentID, actorInstructorID string) (*dto.AverageResultResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	results, err := s.repo.Result.ListByCourseAndStudent(ctx, courseID, studentID, false)
	if err != nil {
		return nil, err
	}

	resp := averageOf(results)
	resp.CourseID = courseID
	resp.StudentID = studentID
	return resp, nil
}

// CourseStatistics summarizes the active results of an owned course.
func (s *ResultService) CourseStatistics(ctx context.Context, courseID, actorInstructorID string) (*dto.ResultStatisticsResponse, error) {
	if err := s.requireOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	results, err := s.repo.Result.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	stats := &dto.ResultStatisticsResponse{TotalResults: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	sum := decimal.Zero
	stats.HighestResult = results[0].ResultValue
	stats.LowestResult = results[0].ResultValue
	for i := range results {
		v := results[i].ResultValue
		sum = sum.Add(v)
		if v.GreaterThan(stats.HighestResult) {
			stats.HighestResult = v
		}
		if v.LessThan(stats.LowestResult) {
			stats.LowestResult = v
		}
	}
	stats.AverageResult = sum.Div(decimal.NewFromInt(int64(len(results)))).Round(2)
	return stats, nil
}

// ── student side ──

// ListReleased returns every released result of the student.
func (s *ResultService) ListReleased(ctx context.Context, studentID string) ([]dto.ResultResponse, error) {
	results, err := s.repo.Result.ListByStudent(ctx, studentID, true)
	if err != nil {
		return nil, err
	}
	return toResultResponses(results), nil
}

// ListReleasedForCourse returns the student's released results in one of
// their courses.
func (s *ResultService) ListReleasedForCourse(ctx context.Context, courseID, studentID string) ([]dto.ResultResponse, error) {
	enrolled, err := s.repo.Course.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotCourseMember
	}
	results, err := s.repo.Result.ListByCourseAndStudent(ctx, courseID, studentID, true)
	if err != nil {
		return nil, err
	}
	return toResultResponses(results), nil
}

// ReleasedAverage averages the student's released results. Drafts never
// count.
func (s *ResultService) ReleasedAverage(ctx context.Context, studentID string) (*dto.AverageResultResponse, error) {
	results, err := s.repo.Result.ListByStudent(ctx, studentID, true)
	if err != nil {
		return nil, err
	}

	resp := averageOf(results)
	resp.StudentID = studentID
	return resp, nil
}

// ReleasedCourseAverage averages the student's released results in one
// of their courses.
func (s *ResultService) ReleasedCourseAverage(ctx context.Context, courseID, studentID string) (*dto.AverageResultResponse, error) {
	enrolled, err := s.repo.Course.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotCourseMember
	}
	results, err := s.repo.Result.ListByCourseAndStudent(ctx, courseID, studentID, true)
	if err != nil {
		return nil, err
	}

	resp := averageOf(results)
	resp.CourseID = courseID
	resp.StudentID = studentID
	return resp, nil
}

// ── helpers ──

func averageOf(results []model.Result) *dto.AverageResultResponse {
	resp := &dto.AverageResultResponse{
		AverageResult: decimal.Zero,
		ResultCount:   len(results),
	}
	if len(results) == 0 {
		return resp
	}

	sum := decimal.Zero
	for i := range results {
		sum = sum.Add(results[i].ResultValue)
	}
	resp.AverageResult = sum.Div(decimal.NewFromInt(int64(len(results)))).Round(2)
	return resp
}

func validateResultRequest(req *dto.ResultRequest) error {
	if !model.ValidResultType(req.ResultType) {
		return ErrInvalidResultType
	}
	if req.ResultValue.IsNegative() || req.ResultValue.GreaterThan(maxResultValue) {
		return ErrResultValueOutOfRange
	}
	return nil
}

func (s *ResultService) requireOwner(ctx context.Context, courseID, actorInstructorID string) error {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if course.InstructorID != actorInstructorID {
		return ErrNotCourseOwner
	}
	return nil
}

func (s *ResultService) getOwnedResult(ctx context.Context, resultID, actorInstructorID string) (*model.Result, error) {
	result, err := s.repo.Result.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	if result.InstructorID != actorInstructorID {
		return nil, ErrNotCourseOwner
	}
	return result, nil
}

func (s *ResultService) setReleased(ctx context.Context, resultID, actorInstructorID string, released bool) (*dto.ResultResponse, error) {
	result, err := s.getOwnedResult(ctx, resultID, actorInstructorID)
	if err != nil {
		return nil, err
	}

	if released {
		result.Release()
	} else {
		result.Unrelease()
	}
	if err := s.repo.Result.Update(ctx, result); err != nil {
		return nil, err
	}

	resp := toResultResponse(result)
	return &resp, nil
}

// ── mapping ──

func toResultResponse(r *model.Result) dto.ResultResponse {
	resp := dto.ResultResponse{
		ID:                    r.ResultID,
		ResultValue:           r.ResultValue,
		ResultType:            r.ResultType,
		ResultTypeDisplayName: model.ResultTypeDisplayName(r.ResultType),
		LetterResult:          r.LetterResult(),
		Title:                 r.Title,
		Description:           r.Description,
		IsReleased:            r.IsReleased,
		IsActive:              r.IsActive,
		StudentID:             r.StudentID,
		CourseID:              r.CourseID,
		InstructorID:          r.InstructorID,
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             r.UpdatedAt.Format(time.RFC3339),
	}
	if r.ReleasedAt != nil {
		resp.ReleasedAt = r.ReleasedAt.Format(time.RFC3339)
	}
	if r.Student != nil {
		resp.StudentName = r.Student.FullName()
	}
	if r.Course != nil {
		resp.CourseCode = r.Course.CourseCode
		resp.CourseName = r.Course.CourseName
	}
	return resp
}

func toResultResponses(results []model.Result) []dto.ResultResponse {
	out := make([]dto.ResultResponse, 0, len(results))
	for i := range results {
		out = append(out, toResultResponse(&results[i]))
	}
	return out
}
