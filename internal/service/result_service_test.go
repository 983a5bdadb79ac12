package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

type resultEnv struct {
	repo       *repository.Repository
	svc        *ResultService
	instructor *model.Instructor
	student    *model.Student
	course     *model.Course
}

func newResultServiceEnv(t *testing.T) *resultEnv {
	t.Helper()
	repo := newMockRepository()
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if err := repo.Course.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	return &resultEnv{
		repo:       repo,
		svc:        NewResultService(repo, zap.NewNop()),
		instructor: instructor,
		student:    student,
		course:     course,
	}
}

func (e *resultEnv) resultRequest(value int64, title string) *dto.ResultRequest {
	return &dto.ResultRequest{
		CourseID:    e.course.CourseID,
		StudentID:   e.student.StudentID,
		ResultType:  model.ResultTypeQuiz,
		Title:       title,
		ResultValue: decimal.NewFromInt(value),
	}
}

func TestResultService_Create(t *testing.T) {
	env := newResultServiceEnv(t)

	result, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(85, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.LetterResult != "B" {
		t.Fatalf("expected letter B, got %s", result.LetterResult)
	}
	if result.IsReleased {
		t.Fatal("new result should start as a draft")
	}
}

func TestResultService_Create_Preconditions(t *testing.T) {
	env := newResultServiceEnv(t)

	req := env.resultRequest(85, "Quiz 1")
	req.ResultType = "BOGUS"
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, req); !errors.Is(err, ErrInvalidResultType) {
		t.Fatalf("expected ErrInvalidResultType, got %v", err)
	}

	req = env.resultRequest(101, "Quiz 1")
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, req); !errors.Is(err, ErrResultValueOutOfRange) {
		t.Fatalf("expected ErrResultValueOutOfRange, got %v", err)
	}

	req = env.resultRequest(85, "Quiz 1")
	if _, err := env.svc.Create(context.Background(), "someone-else", req); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}

	outsider := seedStudent(t, env.repo, 2)
	req = env.resultRequest(85, "Quiz 1")
	req.StudentID = outsider.StudentID
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, req); !errors.Is(err, ErrNotCourseMember) {
		t.Fatalf("expected ErrNotCourseMember, got %v", err)
	}
}

func TestResultService_Create_DuplicateAssessment(t *testing.T) {
	env := newResultServiceEnv(t)

	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(85, "Quiz 1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(90, "Quiz 1"))
	if !errors.Is(err, ErrDuplicateAssessment) {
		t.Fatalf("expected ErrDuplicateAssessment, got %v", err)
	}

	// A different title is a different assessment.
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(90, "Quiz 2")); err != nil {
		t.Fatalf("create second assessment: %v", err)
	}
}

func TestResultService_Delete_FreesAssessmentSlot(t *testing.T) {
	env := newResultServiceEnv(t)

	created, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(85, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.svc.Delete(context.Background(), created.ID, env.instructor.InstructorID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The retired result no longer blocks the slot.
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(95, "Quiz 1")); err != nil {
		t.Fatalf("recreate assessment: %v", err)
	}
}

func TestResultService_ReleaseLifecycle(t *testing.T) {
	env := newResultServiceEnv(t)

	created, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(85, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Draft results are invisible to the student.
	visible, err := env.svc.ListReleased(context.Background(), env.student.StudentID)
	if err != nil {
		t.Fatalf("list released: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected no released results, got %d", len(visible))
	}

	released, err := env.svc.Release(context.Background(), created.ID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !released.IsReleased || released.ReleasedAt == "" {
		t.Fatal("expected released result with timestamp")
	}

	// Releasing again keeps the first timestamp.
	again, err := env.svc.Release(context.Background(), created.ID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("re-release: %v", err)
	}
	if again.ReleasedAt != released.ReleasedAt {
		t.Fatalf("release timestamp changed: %s -> %s", released.ReleasedAt, again.ReleasedAt)
	}

	visible, err = env.svc.ListReleased(context.Background(), env.student.StudentID)
	if err != nil {
		t.Fatalf("list released: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 released result, got %d", len(visible))
	}

	hidden, err := env.svc.Unrelease(context.Background(), created.ID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("unrelease: %v", err)
	}
	if hidden.IsReleased || hidden.ReleasedAt != "" {
		t.Fatal("expected hidden result with cleared timestamp")
	}
}

func TestResultService_BulkRelease(t *testing.T) {
	env := newResultServiceEnv(t)

	for _, title := range []string{"Quiz 1", "Quiz 2", "Quiz 3"} {
		if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(80, title)); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	out, err := env.svc.BulkRelease(context.Background(), env.course.CourseID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("bulk release: %v", err)
	}
	if out.Affected != 3 {
		t.Fatalf("expected 3 affected, got %d", out.Affected)
	}

	// Second run finds nothing left to release.
	out, err = env.svc.BulkRelease(context.Background(), env.course.CourseID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("bulk release again: %v", err)
	}
	if out.Affected != 0 {
		t.Fatalf("expected 0 affected, got %d", out.Affected)
	}

	if _, err := env.svc.BulkRelease(context.Background(), env.course.CourseID, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}
}

func TestResultService_ReleasedAverage(t *testing.T) {
	env := newResultServiceEnv(t)

	first, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(80, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(90, "Quiz 2")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.svc.Release(context.Background(), first.ID, env.instructor.InstructorID); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Only the released result counts.
	avg, err := env.svc.ReleasedAverage(context.Background(), env.student.StudentID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg.ResultCount != 1 {
		t.Fatalf("expected 1 counted result, got %d", avg.ResultCount)
	}
	if !avg.AverageResult.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected average 80, got %s", avg.AverageResult)
	}
}

func TestResultService_Get_OwnershipGuard(t *testing.T) {
	env := newResultServiceEnv(t)

	created, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(85, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := env.svc.Get(context.Background(), created.ID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || got.Title != "Quiz 1" {
		t.Fatalf("unexpected result %+v", got)
	}

	if _, err := env.svc.Get(context.Background(), created.ID, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}
	if _, err := env.svc.Get(context.Background(), "missing", env.instructor.InstructorID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}

func TestResultService_StudentCourseAverage(t *testing.T) {
	env := newResultServiceEnv(t)

	first, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(80, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(90, "Quiz 2")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Release(context.Background(), first.ID, env.instructor.InstructorID); err != nil {
		t.Fatalf("release: %v", err)
	}

	// The instructor view counts drafts too.
	avg, err := env.svc.StudentCourseAverage(context.Background(), env.course.CourseID, env.student.StudentID, env.instructor.InstructorID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg.ResultCount != 2 {
		t.Fatalf("expected 2 counted results, got %d", avg.ResultCount)
	}
	if !avg.AverageResult.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("expected average 85, got %s", avg.AverageResult)
	}

	if _, err := env.svc.StudentCourseAverage(context.Background(), env.course.CourseID, env.student.StudentID, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}
}

func TestResultService_ReleasedCourseAverage(t *testing.T) {
	env := newResultServiceEnv(t)

	first, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(80, "Quiz 1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Create(context.Background(), env.instructor.InstructorID, env.resultRequest(90, "Quiz 2")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Release(context.Background(), first.ID, env.instructor.InstructorID); err != nil {
		t.Fatalf("release: %v", err)
	}

	// The student view counts released results only.
	avg, err := env.svc.ReleasedCourseAverage(context.Background(), env.course.CourseID, env.student.StudentID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg.ResultCount != 1 {
		t.Fatalf("expected 1 counted result, got %d", avg.ResultCount)
	}
	if !avg.AverageResult.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected average 80, got %s", avg.AverageResult)
	}

	outsider := seedStudent(t, env.repo, 2)
	if _, err := env.svc.ReleasedCourseAverage(context.Background(), env.course.CourseID, outsider.StudentID); !errors.Is(err, ErrNotCourseMember) {
		t.Fatalf("expected ErrNotCourseMember, got %v", err)
	}
}

func TestResultService_StudentCourseView_RequiresMembership(t *testing.T) {
	env := newResultServiceEnv(t)
	outsider := seedStudent(t, env.repo, 2)

	_, err := env.svc.ListReleasedForCourse(context.Background(), env.course.CourseID, outsider.StudentID)
	if !errors.Is(err, ErrNotCourseMember) {
		t.Fatalf("expected ErrNotCourseMember, got %v", err)
	}
}
