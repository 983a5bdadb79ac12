package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

func seedInstructor(t *testing.T, repo *repository.Repository) *model.Instructor {
	t.Helper()
	instructor := &model.Instructor{
		EmployeeID: "EMP001",
		FirstName:  "Alan",
		LastName:   "Turing",
		Email:      "alan.turing@university.edu",
		Department: "Computer Science",
		IsActive:   true,
	}
	if err := repo.Instructor.Create(context.Background(), instructor); err != nil {
		t.Fatalf("seed instructor: %v", err)
	}
	return instructor
}

func seedStudent(t *testing.T, repo *repository.Repository, n int) *model.Student {
	t.Helper()
	student := &model.Student{
		StudentNumber: fmt.Sprintf("STU%03d", n),
		FirstName:     "Student",
		LastName:      fmt.Sprintf("Number%d", n),
		Email:         fmt.Sprintf("student%d@university.edu", n),
		Major:         "Computer Science",
		Year:          2,
		Status:        model.StudentStatusActive,
		IsActive:      true,
	}
	if err := repo.Student.Create(context.Background(), student); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

func seedCourse(t *testing.T, repo *repository.Repository, instructorID string, capacity int) *model.Course {
	t.Helper()
	course := &model.Course{
		CourseCode:     "CS101",
		CourseName:     "Introduction to Computing",
		Credits:        3,
		Department:     "Computer Science",
		Semester:       1,
		StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		MaxCapacity:    capacity,
		IsActive:       true,
		EnrollmentOpen: true,
		InstructorID:   instructorID,
	}
	if err := repo.Course.Create(context.Background(), course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}

func newCourseServiceEnv(t *testing.T) (*repository.Repository, *CourseService) {
	t.Helper()
	repo := newMockRepository()
	return repo, NewCourseService(repo, zap.NewNop())
}

func TestCourseService_Create_DuplicateCode(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	seedCourse(t, repo, instructor.InstructorID, 30)

	_, err := svc.Create(context.Background(), &dto.CourseRequest{
		CourseCode:   "CS101",
		CourseName:   "Different Name",
		Credits:      3,
		Department:   "Computer Science",
		Semester:     1,
		StartDate:    "2026-09-01",
		EndDate:      "2026-12-20",
		MaxCapacity:  30,
		InstructorID: instructor.InstructorID,
	})
	if !errors.Is(err, ErrDuplicateCourseCode) {
		t.Fatalf("expected ErrDuplicateCourseCode, got %v", err)
	}
}

func TestCourseService_Create_UnknownInstructor(t *testing.T) {
	_, svc := newCourseServiceEnv(t)

	_, err := svc.Create(context.Background(), &dto.CourseRequest{
		CourseCode:   "CS200",
		CourseName:   "Algorithms",
		Credits:      3,
		Department:   "Computer Science",
		Semester:     2,
		StartDate:    "2026-09-01",
		EndDate:      "2026-12-20",
		MaxCapacity:  30,
		InstructorID: "missing",
	})
	if !errors.Is(err, ErrInstructorNotFound) {
		t.Fatalf("expected ErrInstructorNotFound, got %v", err)
	}
}

func TestCourseService_Create_InvalidDateRange(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)

	_, err := svc.Create(context.Background(), &dto.CourseRequest{
		CourseCode:   "CS200",
		CourseName:   "Algorithms",
		Credits:      3,
		Department:   "Computer Science",
		Semester:     2,
		StartDate:    "2026-12-20",
		EndDate:      "2026-09-01",
		MaxCapacity:  30,
		InstructorID: instructor.InstructorID,
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCourseService_Update_CapacityBelowEnrollment(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)

	for i := 0; i < 3; i++ {
		student := seedStudent(t, repo, i+1)
		if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
	}

	_, err := svc.Update(context.Background(), course.CourseID, &dto.CourseRequest{
		CourseCode:   "CS101",
		CourseName:   "Introduction to Computing",
		Credits:      3,
		Department:   "Computer Science",
		Semester:     1,
		StartDate:    "2026-09-01",
		EndDate:      "2026-12-20",
		MaxCapacity:  2,
		InstructorID: instructor.InstructorID,
	}, "")
	if !errors.Is(err, ErrCapacityBelowEnrollment) {
		t.Fatalf("expected ErrCapacityBelowEnrollment, got %v", err)
	}
}

func TestCourseService_Update_OwnershipGuard(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)

	req := &dto.CourseRequest{
		CourseCode:   "CS101",
		CourseName:   "Introduction to Computing",
		Credits:      3,
		Department:   "Computer Science",
		Semester:     1,
		StartDate:    "2026-09-01",
		EndDate:      "2026-12-20",
		MaxCapacity:  30,
		InstructorID: instructor.InstructorID,
		Location:     "Hall B",
	}

	if _, err := svc.Update(context.Background(), course.CourseID, req, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), course.CourseID, req, instructor.InstructorID)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Location != "Hall B" {
		t.Fatalf("location not updated: %q", updated.Location)
	}

	// Owners cannot hand the course to another instructor.
	reassign := *req
	reassign.InstructorID = "someone-else"
	if _, err := svc.Update(context.Background(), course.CourseID, &reassign, instructor.InstructorID); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner on reassignment, got %v", err)
	}
}

func TestCourseService_Delete_Permanent(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := svc.Delete(context.Background(), course.CourseID); !errors.Is(err, ErrCourseHasEnrollments) {
		t.Fatalf("expected ErrCourseHasEnrollments, got %v", err)
	}

	if _, err := svc.UnenrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := svc.Delete(context.Background(), course.CourseID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), course.CourseID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_Deactivate_WithRoster(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if err := svc.Deactivate(context.Background(), course.CourseID); !errors.Is(err, ErrCourseHasEnrollments) {
		t.Fatalf("expected ErrCourseHasEnrollments, got %v", err)
	}

	if _, err := svc.UnenrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := svc.Deactivate(context.Background(), course.CourseID); err != nil {
		t.Fatalf("deactivate empty course: %v", err)
	}
}

func TestCourseService_Activate_KeepsEnrollmentClosed(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)

	if err := svc.Deactivate(context.Background(), course.CourseID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	restored, err := svc.Activate(context.Background(), course.CourseID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !restored.IsActive {
		t.Fatal("course should be active again")
	}
	if restored.EnrollmentOpen {
		t.Fatal("activation must not reopen enrollment")
	}
}

func TestCourseService_RemoveStudent(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if err := svc.RemoveStudent(context.Background(), course.CourseID, student.StudentID, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}

	if err := svc.RemoveStudent(context.Background(), course.CourseID, student.StudentID, instructor.InstructorID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	enrolled, err := repo.Course.IsEnrolled(context.Background(), course.CourseID, student.StudentID)
	if err != nil {
		t.Fatalf("is enrolled: %v", err)
	}
	if enrolled {
		t.Fatal("student should be off the roster")
	}
}

func TestCourseService_EnrollStudent(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 2)

	first := seedStudent(t, repo, 1)
	second := seedStudent(t, repo, 2)
	third := seedStudent(t, repo, 3)

	after, err := svc.EnrollStudent(context.Background(), course.CourseID, first.StudentID)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if after.CurrentEnrollment != 1 {
		t.Fatalf("expected returned enrollment 1, got %d", after.CurrentEnrollment)
	}
	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, first.StudentID); !errors.Is(err, model.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	after, err = svc.EnrollStudent(context.Background(), course.CourseID, second.StudentID)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if after.CurrentEnrollment != 2 {
		t.Fatalf("expected returned enrollment 2, got %d", after.CurrentEnrollment)
	}
	if !after.IsFull {
		t.Fatal("expected returned course to be full")
	}
	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, third.StudentID); !errors.Is(err, model.ErrCourseFull) {
		t.Fatalf("expected ErrCourseFull, got %v", err)
	}

	dropped, err := svc.UnenrollStudent(context.Background(), course.CourseID, first.StudentID)
	if err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if dropped.CurrentEnrollment != 1 {
		t.Fatalf("expected returned enrollment 1 after drop, got %d", dropped.CurrentEnrollment)
	}
	if dropped.IsFull {
		t.Fatal("course should have a free seat after the drop")
	}
}

func TestCourseService_EnrollStudent_Closed(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if _, err := svc.SetEnrollmentOpen(context.Background(), course.CourseID, false, ""); err != nil {
		t.Fatalf("close enrollment: %v", err)
	}

	_, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID)
	if !errors.Is(err, model.ErrEnrollmentClosed) {
		t.Fatalf("expected ErrEnrollmentClosed, got %v", err)
	}
}

func TestCourseService_EnrollStudent_MissingParticipants(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	if _, err := svc.EnrollStudent(context.Background(), "missing", student.StudentID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, "missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestCourseService_UnenrollStudent_NotEnrolled(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	_, err := svc.UnenrollStudent(context.Background(), course.CourseID, student.StudentID)
	if !errors.Is(err, model.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestCourseService_GetEnrolled_MembershipGuard(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)
	outsider := seedStudent(t, repo, 2)

	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	got, err := svc.GetEnrolled(context.Background(), course.CourseID, student.StudentID)
	if err != nil {
		t.Fatalf("get enrolled: %v", err)
	}
	if got.ID != course.CourseID {
		t.Fatalf("unexpected course %q", got.ID)
	}

	if _, err := svc.GetEnrolled(context.Background(), course.CourseID, outsider.StudentID); !errors.Is(err, ErrNotCourseMember) {
		t.Fatalf("expected ErrNotCourseMember, got %v", err)
	}
	if _, err := svc.GetEnrolled(context.Background(), "missing", student.StudentID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_SetEnrollmentOpen_Ownership(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)

	if _, err := svc.SetEnrollmentOpen(context.Background(), course.CourseID, false, "someone-else"); !errors.Is(err, ErrNotCourseOwner) {
		t.Fatalf("expected ErrNotCourseOwner, got %v", err)
	}

	// The owner may flip it, and so may an admin (empty actor).
	if _, err := svc.SetEnrollmentOpen(context.Background(), course.CourseID, false, instructor.InstructorID); err != nil {
		t.Fatalf("owner close: %v", err)
	}
	got, err := svc.SetEnrollmentOpen(context.Background(), course.CourseID, true, "")
	if err != nil {
		t.Fatalf("admin open: %v", err)
	}
	if !got.EnrollmentOpen {
		t.Fatal("expected enrollment to be open")
	}
}

func TestCourseService_ListAvailable(t *testing.T) {
	repo, svc := newCourseServiceEnv(t)
	instructor := seedInstructor(t, repo)
	course := seedCourse(t, repo, instructor.InstructorID, 30)
	student := seedStudent(t, repo, 1)

	available, err := svc.ListAvailable(context.Background(), student.StudentID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 {
		t.Fatalf("expected 1 available course, got %d", len(available))
	}

	if _, err := svc.EnrollStudent(context.Background(), course.CourseID, student.StudentID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	available, err = svc.ListAvailable(context.Background(), student.StudentID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 0 {
		t.Fatalf("expected no available courses after enrolling, got %d", len(available))
	}

	enrolled, err := svc.ListEnrolled(context.Background(), student.StudentID)
	if err != nil {
		t.Fatalf("list enrolled: %v", err)
	}
	if len(enrolled) != 1 {
		t.Fatalf("expected 1 enrolled course, got %d", len(enrolled))
	}
}
