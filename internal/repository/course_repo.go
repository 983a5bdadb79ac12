package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandunsrimal/university-course-management/internal/model"
)

// CourseRepository is the course data access interface. Enrollment mutations
// run inside a transaction holding a row lock on the course, so the capacity
// counter can never drift from the join table under concurrency.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	List(ctx context.Context, activeOnly bool) ([]model.Course, error)
	ListByDepartment(ctx context.Context, department string) ([]model.Course, error)
	ListBySemester(ctx context.Context, semester int) ([]model.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error)
	ListWithOpenEnrollment(ctx context.Context) ([]model.Course, error)
	ListAvailableForStudent(ctx context.Context, studentID string) ([]model.Course, error)
	ListEnrolledByStudent(ctx context.Context, studentID string) ([]model.Course, error)
	Search(ctx context.Context, query string) ([]model.Course, error)
	Departments(ctx context.Context) ([]string, error)
	Semesters(ctx context.Context) ([]int, error)
	Update(ctx context.Context, course *model.Course) error
	// Delete removes the course row; content and results cascade at the
	// schema level. Callers enforce the empty-roster rule first.
	Delete(ctx context.Context, id string) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error)
	EnrollStudent(ctx context.Context, courseID, studentID string) error
	UnenrollStudent(ctx context.Context, courseID, studentID string) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountByInstructor(ctx context.Context, instructorID string, activeOnly bool) (int64, error)
	CountByDepartment(ctx context.Context) ([]LabelCount, error)
	CountBySemester(ctx context.Context) ([]LabelCount, error)
	TotalEnrollment(ctx context.Context) (int64, error)
	TotalCapacity(ctx context.Context) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates the GORM-backed CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("EnrolledStudents").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("course_code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, activeOnly bool) ([]model.Course, error) {
	var courses []model.Course
	db := r.db.WithContext(ctx).Preload("Instructor")
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Order("course_code").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByDepartment(ctx context.Context, department string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("department = ? AND is_active", department).
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListBySemester(ctx context.Context, semester int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("semester = ? AND is_active", semester).
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("EnrolledStudents").
		Where("instructor_id = ? AND is_active", instructorID).
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListWithOpenEnrollment(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("is_active AND enrollment_open").
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListAvailableForStudent(ctx context.Context, studentID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("is_active AND enrollment_open AND current_enrollment < max_capacity").
		Where("course_id NOT IN (?)",
			r.db.Table("course_enrollments").
				Select("course_id").
				Where("student_id = ?", studentID)).
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListEnrolledByStudent(ctx context.Context, studentID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Joins("JOIN course_enrollments ce ON ce.course_id = courses.course_id").
		Where("ce.student_id = ? AND courses.is_active", studentID).
		Order("courses.course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Search(ctx context.Context, query string) ([]model.Course, error) {
	var courses []model.Course
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("is_active AND (course_name ILIKE ? OR course_code ILIKE ?)", pattern, pattern).
		Order("course_code").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Departments(ctx context.Context) ([]string, error) {
	var departments []string
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("is_active").
		Distinct("department").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}

func (r *courseRepo) Semesters(ctx context.Context) ([]int, error) {
	var semesters []int
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("is_active").
		Distinct("semester").
		Order("semester").
		Pluck("semester", &semesters).Error
	return semesters, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).
		Omit("EnrolledStudents").
		Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("course_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *courseRepo) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("course_enrollments").
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

// lockCourseRow scopes tx to one course row under SELECT ... FOR UPDATE,
// serializing concurrent enrollment mutations on the same course.
func lockCourseRow(tx *gorm.DB, courseID string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ?", courseID)
}

// EnrollStudent locks the course row, re-checks every enrollment invariant
// under the lock, then inserts the join row and bumps the counter in the
// same transaction. Model-level sentinel errors pass through untouched so
// the service can map each refusal to its own response.
func (r *courseRepo) EnrollStudent(ctx context.Context, courseID, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := lockCourseRow(tx, courseID).First(&course).Error; err != nil {
			return err
		}

		var student model.Student
		if err := tx.Where("student_id = ?", studentID).First(&student).Error; err != nil {
			return err
		}

		if err := tx.Model(&course).Association("EnrolledStudents").Find(&course.EnrolledStudents); err != nil {
			return err
		}

		if err := course.Enroll(student); err != nil {
			return err
		}

		if err := tx.Exec(
			"INSERT INTO course_enrollments (course_id, student_id) VALUES (?, ?)",
			courseID, studentID,
		).Error; err != nil {
			return err
		}

		return tx.Model(&model.Course{}).
			Where("course_id = ?", courseID).
			Update("current_enrollment", course.CurrentEnrollment).Error
	})
}

// UnenrollStudent removes the join row under the course row lock and
// decrements the counter. A missing membership maps to ErrNotEnrolled.
func (r *courseRepo) UnenrollStudent(ctx context.Context, courseID, studentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := lockCourseRow(tx, courseID).First(&course).Error; err != nil {
			return err
		}

		res := tx.Exec(
			"DELETE FROM course_enrollments WHERE course_id = ? AND student_id = ?",
			courseID, studentID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotEnrolled
		}

		if course.CurrentEnrollment > 0 {
			course.CurrentEnrollment--
		}
		return tx.Model(&model.Course{}).
			Where("course_id = ?", courseID).
			Update("current_enrollment", course.CurrentEnrollment).Error
	})
}

func (r *courseRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Course{})
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *courseRepo) CountByInstructor(ctx context.Context, instructorID string, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("instructor_id = ?", instructorID)
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *courseRepo) CountByDepartment(ctx context.Context) ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Select("department AS label, COUNT(*) AS count").
		Where("is_active").
		Group("department").
		Order("department").
		Scan(&counts).Error
	return counts, err
}

func (r *courseRepo) CountBySemester(ctx context.Context) ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Select("CAST(semester AS TEXT) AS label, COUNT(*) AS count").
		Where("is_active").
		Group("semester").
		Order("semester").
		Scan(&counts).Error
	return counts, err
}

func (r *courseRepo) TotalEnrollment(ctx context.Context) (int64, error) {
	return r.sumColumn(ctx, "current_enrollment")
}

func (r *courseRepo) TotalCapacity(ctx context.Context) (int64, error) {
	return r.sumColumn(ctx, "max_capacity")
}

func (r *courseRepo) sumColumn(ctx context.Context, column string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("is_active").
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return total, err
}
